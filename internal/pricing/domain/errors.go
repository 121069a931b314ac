package domain

import "errors"

var (
	ErrInvalidParameter    = errors.New("invalid pricing parameter")
	ErrDegenerateLattice   = errors.New("degenerate lattice")
	ErrUnstableProbability = errors.New("risk-neutral probability outside [0,1]")
	ErrInvalidOptionType   = errors.New("invalid option type")
	ErrQuoteNotFound       = errors.New("quote not found for underlying")
)

package domain

// CalculateGreeks 通过有限差分重定价计算希腊字母。
// Delta 与 Gamma 采用现货价 ±1% 的相对扰动, Vega 与 Rho 采用 0.01 的绝对扰动后折算为每 1 个百分点的敏感度。
// Theta 定义为到期时间缩短一个自然日后的价格变化, T 不足一天时由重定价校验返回 ErrInvalidParameter。
// 任何一次扰动后的重定价失败都会使整个计算失败。
func (m *BinomialModel) CalculateGreeks(optionType OptionType, in BinomialInput) (Greeks, error) {
	const epsilon = 0.01

	// Delta: 现货上下扰动 1% 后取中心差分
	sUp := in.S * 1.01
	sDown := in.S * 0.99

	upIn := in
	upIn.S = sUp
	priceUp, err := m.Price(optionType, upIn)
	if err != nil {
		return Greeks{}, err
	}

	downIn := in
	downIn.S = sDown
	priceDown, err := m.Price(optionType, downIn)
	if err != nil {
		return Greeks{}, err
	}

	delta := (priceUp - priceDown) / (sUp - sDown)

	// Gamma: 在上下价位各取一个单侧 delta, 再做一次差分
	upUpIn := in
	upUpIn.S = sUp * 1.01
	priceUpUp, err := m.Price(optionType, upUpIn)
	if err != nil {
		return Greeks{}, err
	}
	deltaUp := (priceUpUp - priceUp) / (sUp*1.01 - sUp)

	downDownIn := in
	downDownIn.S = sDown * 0.99
	priceDownDown, err := m.Price(optionType, downDownIn)
	if err != nil {
		return Greeks{}, err
	}
	deltaDown := (priceDown - priceDownDown) / (sDown - sDown*0.99)

	gamma := (deltaUp - deltaDown) / (sUp - sDown)

	// Vega: 波动率绝对扰动 epsilon, sigma < epsilon 时下行扰动会被输入校验拒绝
	vegaUpIn := in
	vegaUpIn.Sigma = in.Sigma + epsilon
	vegaUp, err := m.Price(optionType, vegaUpIn)
	if err != nil {
		return Greeks{}, err
	}

	vegaDownIn := in
	vegaDownIn.Sigma = in.Sigma - epsilon
	vegaDown, err := m.Price(optionType, vegaDownIn)
	if err != nil {
		return Greeks{}, err
	}

	vega := (vegaUp - vegaDown) / (2 * epsilon) / 100

	// Theta: 到期时间缩短一个自然日
	const oneDay = 1.0 / 365

	priceNow, err := m.Price(optionType, in)
	if err != nil {
		return Greeks{}, err
	}

	laterIn := in
	laterIn.T = in.T - oneDay
	priceLater, err := m.Price(optionType, laterIn)
	if err != nil {
		return Greeks{}, err
	}

	theta := (priceLater - priceNow) / oneDay / 365

	// Rho: 利率绝对扰动 epsilon
	rhoUpIn := in
	rhoUpIn.R = in.R + epsilon
	rhoUp, err := m.Price(optionType, rhoUpIn)
	if err != nil {
		return Greeks{}, err
	}

	rhoDownIn := in
	rhoDownIn.R = in.R - epsilon
	rhoDown, err := m.Price(optionType, rhoDownIn)
	if err != nil {
		return Greeks{}, err
	}

	rho := (rhoUp - rhoDown) / (2 * epsilon) / 100

	return Greeks{
		Delta: delta,
		Gamma: gamma,
		Vega:  vega,
		Theta: theta,
		Rho:   rho,
	}, nil
}

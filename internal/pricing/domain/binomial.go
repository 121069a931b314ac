package domain

import (
	"fmt"
	"math"
)

// Lattice CRR 二叉树的派生参数。
// 由 BinomialInput 唯一确定, 所有字段在构造后只读。
type Lattice struct {
	Dt       float64 // 单步时长 T/Steps (年)
	U        float64 // 上行因子 exp(sigma*sqrt(dt))
	D        float64 // 下行因子 1/u
	P        float64 // 风险中性上行概率
	Discount float64 // 单步贴现因子 exp(-r*dt)
}

// NewLattice 校验输入并计算树参数。
// sigma 过小或 dt 过小导致 u == d 时返回 ErrDegenerateLattice,
// 此时风险中性概率无定义, 不能继续定价。
func NewLattice(in BinomialInput) (Lattice, error) {
	if err := in.Validate(); err != nil {
		return Lattice{}, err
	}

	dt := in.T / float64(in.Steps)
	u := math.Exp(in.Sigma * math.Sqrt(dt))
	d := 1 / u

	// 必须先于概率计算检查, 否则 u-d 为零除
	if u == d {
		return Lattice{}, fmt.Errorf("%w: up factor equals down factor (sigma=%v, dt=%v)", ErrDegenerateLattice, in.Sigma, dt)
	}

	return Lattice{
		Dt:       dt,
		U:        u,
		D:        d,
		P:        (math.Exp(in.R*dt) - d) / (u - d),
		Discount: math.Exp(-in.R * dt),
	}, nil
}

// Stable 判断风险中性概率是否落在 [0,1] 内。
// 超出区间时树仍可机械求值, 但结果失去概率解释,
// 是否拒绝由调用方决定, 定价核心不做截断。
func (l Lattice) Stable() bool {
	return l.P >= 0 && l.P <= 1
}

// Validate 按字段顺序检查定价输入, 全部违规都归为 ErrInvalidParameter。
func (in BinomialInput) Validate() error {
	if in.Steps < 1 {
		return fmt.Errorf("%w: steps must be at least 1, got %d", ErrInvalidParameter, in.Steps)
	}
	if in.T <= 0 {
		return fmt.Errorf("%w: time to expiry must be positive, got %v", ErrInvalidParameter, in.T)
	}
	if in.S < 0 {
		return fmt.Errorf("%w: spot price must be non-negative, got %v", ErrInvalidParameter, in.S)
	}
	if in.K < 0 {
		return fmt.Errorf("%w: strike price must be non-negative, got %v", ErrInvalidParameter, in.K)
	}
	if in.Sigma < 0 {
		return fmt.Errorf("%w: volatility must be non-negative, got %v", ErrInvalidParameter, in.Sigma)
	}
	return nil
}

// ModelBinomialCRR 事件与接口层上报的定价模型标识。
const ModelBinomialCRR = "BINOMIAL_CRR"

// BinomialModel 美式期权 CRR 二叉树定价模型。
// 无内部状态, 可被多 goroutine 并发使用。
type BinomialModel struct{}

func NewBinomialModel() *BinomialModel {
	return &BinomialModel{}
}

// Price 计算美式期权现值。
// 终端收益与内部节点均按节点价格 S*u^j*d^(i-j) 逐点重算,
// 每个内部节点取持有价值与立即行权价值的较大者。
func (m *BinomialModel) Price(optionType OptionType, in BinomialInput) (float64, error) {
	if !optionType.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOptionType, optionType)
	}
	lat, err := NewLattice(in)
	if err != nil {
		return 0, err
	}

	n := in.Steps

	// 1. 到期层收益
	values := make([]float64, n+1)
	for j := 0; j <= n; j++ {
		s := in.S * math.Pow(lat.U, float64(j)) * math.Pow(lat.D, float64(n-j))
		if optionType == OptionTypeCall {
			values[j] = math.Max(s-in.K, 0)
		} else {
			values[j] = math.Max(in.K-s, 0)
		}
	}

	// 2. 逐层回溯, 原地复用 values 切片
	for i := n - 1; i >= 0; i-- {
		for j := 0; j <= i; j++ {
			s := in.S * math.Pow(lat.U, float64(j)) * math.Pow(lat.D, float64(i-j))
			continuation := lat.Discount * (lat.P*values[j+1] + (1-lat.P)*values[j])

			// 行权价值不在此处截零, 由 max 与非负的持有价值比较兜底
			exercise := s - in.K
			if optionType == OptionTypePut {
				exercise = in.K - s
			}
			values[j] = math.Max(continuation, exercise)
		}
	}

	return values[0], nil
}

package domain

import (
	"errors"
	"math"
	"testing"
)

func TestBinomialPrice_ConvergesToBlackScholes(t *testing.T) {
	// 经典参数：S=K=100, r=0.05, sigma=0.2, T=1
	// 无分红时美式 Call 不会提前行权, 步数加密后应收敛到欧式闭式解
	in := BinomialInput{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2, Steps: 100}
	model := NewBinomialModel()

	want := bsCall(100, 100, 0.05, 0.2, 1)
	if !almostEqual(want, 10.450583572185565, 1e-9) {
		t.Fatalf("closed form sanity check failed: got=%v", want)
	}

	got100, err := model.Price(OptionTypeCall, in)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if math.Abs(got100-want) > 0.05 {
		t.Fatalf("n=100 call too far from closed form: got=%v want=%v", got100, want)
	}

	in.Steps = 1000
	got1000, err := model.Price(OptionTypeCall, in)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if math.Abs(got1000-want) > 0.02 {
		t.Fatalf("n=1000 call too far from closed form: got=%v want=%v", got1000, want)
	}
	if math.Abs(got1000-want) >= math.Abs(got100-want) {
		t.Fatalf("refining steps did not improve accuracy: err100=%v err1000=%v", math.Abs(got100-want), math.Abs(got1000-want))
	}
	t.Logf("call n=100: %v, n=1000: %v, closed form: %v", got100, got1000, want)
}

func TestBinomialPrice_SingleStepByHand(t *testing.T) {
	// n=1 时整棵树只有三个节点, 手工展开全部公式核对
	S, K, T, r, sigma := 100.0, 95.0, 1.0, 0.05, 0.2

	u := math.Exp(sigma * math.Sqrt(T))
	d := 1 / u
	p := (math.Exp(r*T) - d) / (u - d)

	vu := math.Max(S*u-K, 0)
	vd := math.Max(S*d-K, 0)
	want := math.Max(math.Exp(-r*T)*(p*vu+(1-p)*vd), S-K)

	got, err := NewBinomialModel().Price(OptionTypeCall, BinomialInput{S: S, K: K, T: T, R: r, Sigma: sigma, Steps: 1})
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if !almostEqual(got, want, 1e-12) {
		t.Fatalf("single step mismatch: got=%v want=%v", got, want)
	}
}

func TestBinomialPrice_DeepInTheMoneyPutExercisesImmediately(t *testing.T) {
	// S=10, K=100: 100 步内连续上行也只到 10*e^2≈73.9, 整棵树都在价内,
	// 每个节点立即行权都严格优于持有, 根节点价值应恰为内在价值
	in := BinomialInput{S: 10, K: 100, T: 1, R: 0.05, Sigma: 0.2, Steps: 100}

	got, err := NewBinomialModel().Price(OptionTypePut, in)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if got != 90 {
		t.Fatalf("deep ITM put should equal intrinsic value: got=%v want=90", got)
	}
}

func TestBinomialPrice_IntrinsicFloor(t *testing.T) {
	model := NewBinomialModel()
	for _, s := range []float64{60, 80, 100, 120, 140} {
		in := BinomialInput{S: s, K: 100, T: 0.5, R: 0.03, Sigma: 0.25, Steps: 200}

		call, err := model.Price(OptionTypeCall, in)
		if err != nil {
			t.Fatalf("call err at S=%v: %v", s, err)
		}
		if call < math.Max(s-100, 0) {
			t.Fatalf("call below intrinsic at S=%v: got=%v", s, call)
		}

		put, err := model.Price(OptionTypePut, in)
		if err != nil {
			t.Fatalf("put err at S=%v: %v", s, err)
		}
		if put < math.Max(100-s, 0) {
			t.Fatalf("put below intrinsic at S=%v: got=%v", s, put)
		}
	}
}

func TestBinomialPrice_MonotonicInSpot(t *testing.T) {
	model := NewBinomialModel()

	prevCall := math.Inf(-1)
	prevPut := math.Inf(1)
	for _, s := range []float64{70, 85, 100, 115, 130} {
		in := BinomialInput{S: s, K: 100, T: 1, R: 0.05, Sigma: 0.2, Steps: 150}

		call, err := model.Price(OptionTypeCall, in)
		if err != nil {
			t.Fatalf("call err at S=%v: %v", s, err)
		}
		if call < prevCall-1e-9 {
			t.Fatalf("call price decreased in spot: S=%v got=%v prev=%v", s, call, prevCall)
		}

		put, err := model.Price(OptionTypePut, in)
		if err != nil {
			t.Fatalf("put err at S=%v: %v", s, err)
		}
		if put > prevPut+1e-9 {
			t.Fatalf("put price increased in spot: S=%v got=%v prev=%v", s, put, prevPut)
		}

		prevCall, prevPut = call, put
	}
}

func TestBinomialPrice_MonotonicInVolatility(t *testing.T) {
	model := NewBinomialModel()

	lastCall, lastPut := -1.0, -1.0
	for _, sigma := range []float64{0.1, 0.2, 0.3, 0.4} {
		in := BinomialInput{S: 100, K: 100, T: 1, R: 0.05, Sigma: sigma, Steps: 150}

		call, err := model.Price(OptionTypeCall, in)
		if err != nil {
			t.Fatalf("call err at sigma=%v: %v", sigma, err)
		}
		if call <= lastCall {
			t.Fatalf("call price did not increase with volatility: sigma=%v got=%v last=%v", sigma, call, lastCall)
		}

		put, err := model.Price(OptionTypePut, in)
		if err != nil {
			t.Fatalf("put err at sigma=%v: %v", sigma, err)
		}
		if put <= lastPut {
			t.Fatalf("put price did not increase with volatility: sigma=%v got=%v last=%v", sigma, put, lastPut)
		}

		lastCall, lastPut = call, put
	}
}

func TestBinomialPrice_Deterministic(t *testing.T) {
	in := BinomialInput{S: 101.37, K: 97.5, T: 0.75, R: 0.045, Sigma: 0.31, Steps: 137}
	model := NewBinomialModel()

	first, err := model.Price(OptionTypePut, in)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := model.Price(OptionTypePut, in)
		if err != nil {
			t.Fatalf("price err: %v", err)
		}
		if again != first {
			t.Fatalf("price not reproducible: run %d got=%v first=%v", i, again, first)
		}
	}
}

func TestBinomialPrice_AmericanPutAboveEuropean(t *testing.T) {
	// 提前行权权利使美式 Put 价格高于欧式闭式解
	in := BinomialInput{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2, Steps: 500}

	am, err := NewBinomialModel().Price(OptionTypePut, in)
	if err != nil {
		t.Fatalf("price err: %v", err)
	}

	eu := bsPut(100, 100, 0.05, 0.2, 1)
	if am < eu+0.1 {
		t.Fatalf("american put should carry early exercise premium: am=%v eu=%v", am, eu)
	}
	if am > eu+2 {
		t.Fatalf("early exercise premium implausibly large: am=%v eu=%v", am, eu)
	}
}

func TestBinomialPrice_InvalidInputs(t *testing.T) {
	model := NewBinomialModel()
	valid := BinomialInput{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2, Steps: 100}

	tests := []struct {
		name   string
		typ    OptionType
		mutate func(*BinomialInput)
		want   error
	}{
		{"zero steps", OptionTypeCall, func(in *BinomialInput) { in.Steps = 0 }, ErrInvalidParameter},
		{"negative steps", OptionTypeCall, func(in *BinomialInput) { in.Steps = -10 }, ErrInvalidParameter},
		{"zero expiry", OptionTypeCall, func(in *BinomialInput) { in.T = 0 }, ErrInvalidParameter},
		{"negative expiry", OptionTypePut, func(in *BinomialInput) { in.T = -1 }, ErrInvalidParameter},
		{"negative spot", OptionTypeCall, func(in *BinomialInput) { in.S = -1 }, ErrInvalidParameter},
		{"negative strike", OptionTypePut, func(in *BinomialInput) { in.K = -5 }, ErrInvalidParameter},
		{"negative volatility", OptionTypeCall, func(in *BinomialInput) { in.Sigma = -0.2 }, ErrInvalidParameter},
		{"zero volatility", OptionTypeCall, func(in *BinomialInput) { in.Sigma = 0 }, ErrDegenerateLattice},
		{"unknown option type", OptionType("STRADDLE"), nil, ErrInvalidOptionType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			_, err := model.Price(tt.typ, in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got err=%v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewLattice_Degenerate(t *testing.T) {
	// sigma 为零或小到 exp 下溢回 1 时 u==d, 概率分母为零
	for _, sigma := range []float64{0, 1e-300} {
		_, err := NewLattice(BinomialInput{S: 100, K: 100, T: 1, R: 0.05, Sigma: sigma, Steps: 100})
		if !errors.Is(err, ErrDegenerateLattice) {
			t.Fatalf("sigma=%v: got err=%v, want ErrDegenerateLattice", sigma, err)
		}
	}
}

func TestLattice_Stable(t *testing.T) {
	// 常规参数下 p 落在 [0,1]
	lat, err := NewLattice(BinomialInput{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.2, Steps: 100})
	if err != nil {
		t.Fatalf("lattice err: %v", err)
	}
	if !lat.Stable() {
		t.Fatalf("expected stable lattice, p=%v", lat.P)
	}

	// 利率远大于波动率时 e^{r*dt} > u, p > 1
	lat, err = NewLattice(BinomialInput{S: 100, K: 100, T: 1, R: 0.5, Sigma: 0.001, Steps: 1})
	if err != nil {
		t.Fatalf("lattice err: %v", err)
	}
	if lat.Stable() || lat.P <= 1 {
		t.Fatalf("expected p > 1, got p=%v", lat.P)
	}

	// 深度负利率时 e^{r*dt} < d, p < 0
	lat, err = NewLattice(BinomialInput{S: 100, K: 100, T: 1, R: -0.5, Sigma: 0.001, Steps: 1})
	if err != nil {
		t.Fatalf("lattice err: %v", err)
	}
	if lat.Stable() || lat.P >= 0 {
		t.Fatalf("expected p < 0, got p=%v", lat.P)
	}

	// 概率越界时定价核心不报错也不截断, 只要求结果有限, 处置交给调用方
	price, err := NewBinomialModel().Price(OptionTypeCall, BinomialInput{S: 100, K: 100, T: 1, R: 0.5, Sigma: 0.001, Steps: 1})
	if err != nil {
		t.Fatalf("price err: %v", err)
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		t.Fatalf("price not finite under unstable probability: %v", price)
	}
}

// --- 测试辅助 ---

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// normCDF 标准正态分布累积函数
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// bsCall / bsPut 欧式期权闭式解, 仅作为收敛基准使用
func bsCall(s, k, r, sigma, t float64) float64 {
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)
	return s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
}

func bsPut(s, k, r, sigma, t float64) float64 {
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t)
	return k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
}

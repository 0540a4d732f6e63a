package forecast

import (
	"math"
	"time"

	"StockInsight/internal/domain/errs"
	"StockInsight/internal/domain/models"
	"StockInsight/pkg/util"
)

// MaxHorizon caps the forecast window (~6 months of trading days) to bound
// compute cost.
const MaxHorizon = 126

// minExtraPoints is the slack the fit requires beyond the model order.
const minExtraPoints = 5

// Engine is the ARIMA forecaster. Stateless; every call fits from scratch
// on the full series it is given.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Forecast fits ARIMA(order) to closes and emits a horizon-step band at the
// requested confidence level. Forecast timestamps are consecutive business
// days starting the day after lastDate.
func (e *Engine) Forecast(closes []float64, lastDate time.Time, horizon int, confidence float64, order models.ARIMAOrder) ([]models.ForecastPoint, error) {
	means, lowers, uppers, err := ForecastValues(closes, horizon, confidence, order)
	if err != nil {
		return nil, err
	}

	dates := util.BusinessDaysAfter(lastDate, horizon)
	points := make([]models.ForecastPoint, horizon)
	for i := 0; i < horizon; i++ {
		points[i] = models.ForecastPoint{
			Time:  dates[i],
			Mean:  means[i],
			Lower: lowers[i],
			Upper: uppers[i],
		}
	}
	return points, nil
}

// ForecastValues runs the fit-and-forecast without attaching timestamps.
func ForecastValues(closes []float64, horizon int, confidence float64, order models.ARIMAOrder) (means, lowers, uppers []float64, err error) {
	if horizon <= 0 {
		return nil, nil, nil, errs.InvalidParameter("horizon must be a positive integer, got %d", horizon)
	}
	if horizon > MaxHorizon {
		return nil, nil, nil, errs.InvalidParameter("horizon %d exceeds maximum window %d", horizon, MaxHorizon)
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, nil, nil, errs.InvalidParameter("confidence must be in (0, 1), got %g", confidence)
	}
	if order.P < 0 || order.D < 0 || order.Q < 0 {
		return nil, nil, nil, errs.InvalidParameter("ARIMA order must be non-negative, got (%d,%d,%d)", order.P, order.D, order.Q)
	}
	if len(closes) < order.Sum()+minExtraPoints {
		return nil, nil, nil, errs.InsufficientData(
			"need at least %d points to fit ARIMA(%d,%d,%d), got %d",
			order.Sum()+minExtraPoints, order.P, order.D, order.Q, len(closes))
	}

	m, err := fitARIMA(closes, order)
	if err != nil {
		return nil, nil, nil, err
	}
	return m.forecast(closes, horizon, confidence)
}

// fitted holds the estimated model and the residual state needed to forecast.
type fitted struct {
	order  models.ARIMAOrder
	phi    []float64 // AR coefficients, lag 1..p
	theta  []float64 // MA coefficients, lag 1..q
	meanW  float64   // mean of the differenced series
	sigma2 float64   // innovation variance from conditional sum of squares
	z      []float64 // centered differenced series
	resid  []float64 // CSS residuals aligned with z
}

// fitARIMA differences the series d times and estimates ARMA(p,q) on the
// result with Hannan-Rissanen two-stage least squares.
func fitARIMA(closes []float64, order models.ARIMAOrder) (*fitted, error) {
	w := difference(closes, order.D)
	mw := mean(w)
	z := make([]float64, len(w))
	for i, v := range w {
		z[i] = v - mw
	}

	m := &fitted{order: order, meanW: mw, z: z}
	p, q := order.P, order.Q
	k := p + q

	// A (near-)constant differenced series carries no signal to regress on;
	// the forecast degenerates to the drift with zero-width intervals.
	if k == 0 || sampleVariance(z) < 1e-12 {
		m.phi = make([]float64, p)
		m.theta = make([]float64, q)
		m.computeResiduals()
		return m, nil
	}

	var eHat []float64
	if q > 0 {
		longAR := 2 * k
		if longAR < 10 {
			longAR = 10
		}
		if cap := len(z) - (k + 1) - q; longAR > cap {
			longAR = cap
		}
		if longAR < p {
			longAR = p
		}
		if longAR < 1 {
			longAR = 1
		}
		a, err := longARCoefficients(z, longAR)
		if err != nil {
			return nil, err
		}
		eHat = make([]float64, len(z))
		for t := longAR; t < len(z); t++ {
			e := z[t]
			for i := 1; i <= longAR; i++ {
				e -= a[i-1] * z[t-i]
			}
			eHat[t] = e
		}
		// Regression rows need q lagged residuals past the long-AR burn-in.
		start := p
		if s := longAR + q; s > start {
			start = s
		}
		coef, err := olsLags(z, eHat, p, q, start)
		if err != nil {
			return nil, err
		}
		m.phi = coef[:p]
		m.theta = coef[p:]
	} else {
		coef, err := olsLags(z, nil, p, 0, p)
		if err != nil {
			return nil, err
		}
		m.phi = coef
		m.theta = []float64{}
	}

	for _, c := range append(append([]float64{}, m.phi...), m.theta...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, errs.ModelFit("non-finite ARMA coefficient estimated")
		}
	}

	m.computeResiduals()
	if math.IsNaN(m.sigma2) || math.IsInf(m.sigma2, 0) {
		return nil, errs.ModelFit("non-finite innovation variance")
	}
	return m, nil
}

// computeResiduals runs the ARMA recursion over z with zero pre-sample
// values and derives sigma2 from the conditional sum of squares.
func (m *fitted) computeResiduals() {
	p, q := m.order.P, m.order.Q
	e := make([]float64, len(m.z))
	for t := range m.z {
		v := m.z[t]
		for i := 1; i <= p && t-i >= 0; i++ {
			v -= m.phi[i-1] * m.z[t-i]
		}
		for j := 1; j <= q && t-j >= 0; j++ {
			v -= m.theta[j-1] * e[t-j]
		}
		e[t] = v
	}
	m.resid = e

	css := 0.0
	n := 0
	for t := p; t < len(e); t++ {
		css += e[t] * e[t]
		n++
	}
	dof := n - (p + q)
	if dof < 1 {
		dof = 1
	}
	m.sigma2 = css / float64(dof)
}

// forecast iterates the ARMA recursion h steps ahead with future shocks set
// to zero, re-integrates d times, and widens the interval with the
// accumulated psi weights under the Gaussian error assumption.
func (m *fitted) forecast(closes []float64, horizon int, confidence float64) (means, lowers, uppers []float64, err error) {
	p, q := m.order.P, m.order.Q
	n := len(m.z)

	zAt := func(t int, pred []float64) float64 {
		if t < n {
			return m.z[t]
		}
		return pred[t-n]
	}

	predZ := make([]float64, horizon)
	for j := 0; j < horizon; j++ {
		t := n + j
		v := 0.0
		for i := 1; i <= p; i++ {
			if t-i >= 0 {
				v += m.phi[i-1] * zAt(t-i, predZ)
			}
		}
		for i := 1; i <= q; i++ {
			if t-i >= 0 && t-i < n {
				v += m.theta[i-1] * m.resid[t-i]
			}
		}
		predZ[j] = v
	}

	// Back to the differenced scale, then undo the differencing.
	cur := make([]float64, horizon)
	for j := range predZ {
		cur[j] = predZ[j] + m.meanW
	}
	for level := m.order.D - 1; level >= 0; level-- {
		base := difference(closes, level)
		run := base[len(base)-1]
		next := make([]float64, horizon)
		for j := 0; j < horizon; j++ {
			run += cur[j]
			next[j] = run
		}
		cur = next
	}
	means = cur

	psi := psiWeights(m.phi, m.theta, horizon)
	for d := 0; d < m.order.D; d++ {
		acc := 0.0
		for j := range psi {
			acc += psi[j]
			psi[j] = acc
		}
	}

	zq := normQuantile((1 + confidence) / 2)
	lowers = make([]float64, horizon)
	uppers = make([]float64, horizon)
	cumVar := 0.0
	for j := 0; j < horizon; j++ {
		cumVar += psi[j] * psi[j]
		half := zq * math.Sqrt(m.sigma2*cumVar)
		if math.IsNaN(half) || math.IsInf(half, 0) {
			return nil, nil, nil, errs.ModelFit("non-finite forecast interval at step %d", j+1)
		}
		lowers[j] = means[j] - half
		uppers[j] = means[j] + half
	}
	return means, lowers, uppers, nil
}

// psiWeights expands ARMA(phi, theta) into its first h MA(infinity) weights.
func psiWeights(phi, theta []float64, h int) []float64 {
	psi := make([]float64, h)
	if h == 0 {
		return psi
	}
	psi[0] = 1
	for j := 1; j < h; j++ {
		v := 0.0
		if j <= len(theta) {
			v = theta[j-1]
		}
		for i := 1; i <= len(phi) && i <= j; i++ {
			v += phi[i-1] * psi[j-i]
		}
		psi[j] = v
	}
	return psi
}

// longARCoefficients fits a long autoregression via Levinson-Durbin on the
// sample autocovariances, used to proxy the unobserved innovations.
func longARCoefficients(z []float64, m int) ([]float64, error) {
	acov := autocovariance(z, m)
	if acov[0] <= 0 {
		return nil, errs.ModelFit("degenerate series: zero variance")
	}

	a := make([]float64, m)
	prev := make([]float64, m)
	v := acov[0]
	for k := 1; k <= m; k++ {
		acc := acov[k]
		for j := 1; j < k; j++ {
			acc -= prev[j-1] * acov[k-j]
		}
		if v <= 0 {
			return nil, errs.ModelFit("Levinson-Durbin recursion broke down at lag %d", k)
		}
		refl := acc / v
		a[k-1] = refl
		for j := 1; j < k; j++ {
			a[j-1] = prev[j-1] - refl*prev[k-1-j]
		}
		v *= 1 - refl*refl
		copy(prev, a)
	}
	return a, nil
}

// olsLags regresses z_t on p lags of z and q lags of eHat, rows starting at
// `start`, and returns the p+q coefficient vector.
func olsLags(z, eHat []float64, p, q, start int) ([]float64, error) {
	k := p + q
	rows := len(z) - start
	if rows < k+1 {
		return nil, errs.ModelFit("too few observations (%d) for %d ARMA coefficients", rows, k)
	}

	// Normal equations X'X b = X'y.
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k)
	}
	xty := make([]float64, k)

	row := make([]float64, k)
	for t := start; t < len(z); t++ {
		for i := 0; i < p; i++ {
			row[i] = z[t-1-i]
		}
		for j := 0; j < q; j++ {
			row[p+j] = eHat[t-1-j]
		}
		for i := 0; i < k; i++ {
			xty[i] += row[i] * z[t]
			for j := i; j < k; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 0; i < k; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	coef, ok := solveLinear(xtx, xty)
	if !ok {
		return nil, errs.ModelFit("singular normal equations in ARMA regression")
	}
	return coef, nil
}

// solveLinear solves Ax=b in place with partial pivoting.
func solveLinear(a [][]float64, b []float64) ([]float64, bool) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		v := b[r]
		for c := r + 1; c < n; c++ {
			v -= a[r][c] * x[c]
		}
		x[r] = v / a[r][r]
	}
	return x, true
}

func difference(xs []float64, d int) []float64 {
	out := append([]float64(nil), xs...)
	for i := 0; i < d; i++ {
		next := make([]float64, len(out)-1)
		for j := 1; j < len(out); j++ {
			next[j-1] = out[j] - out[j-1]
		}
		out = next
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

func sampleVariance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	s := 0.0
	for _, v := range xs {
		s += (v - m) * (v - m)
	}
	return s / float64(len(xs)-1)
}

func autocovariance(z []float64, maxLag int) []float64 {
	n := len(z)
	out := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		s := 0.0
		for t := lag; t < n; t++ {
			s += z[t] * z[t-lag]
		}
		out[lag] = s / float64(n)
	}
	return out
}

// normQuantile is the inverse standard normal CDF (Acklam's rational
// approximation, accurate to ~1e-9 over (0, 1)).
func normQuantile(p float64) float64 {
	a := [6]float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02,
		1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	b := [5]float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02,
		6.680131188771972e+01, -1.328068155288572e+01}
	c := [6]float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00,
		-2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	d := [4]float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00,
		3.754408661907416e+00}

	const pLow = 0.02425
	switch {
	case p <= 0:
		return math.Inf(-1)
	case p >= 1:
		return math.Inf(1)
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p > 1-pLow:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((c[0]*q+c[1])*q+c[2])*q+c[3])*q+c[4])*q + c[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	}
}

package model

import (
	"math"
	"sort"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
)

// InvLogit maps a log-odds value back to a probability. Written to avoid
// overflow for large negative inputs.
func InvLogit(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Predict evaluates the fitted model for one observation and returns the
// prediction on the response (probability) scale. The input's key set must
// match the coefficient key set exactly, after canonicalization; a missing
// or extra key indicates the caller and the stored parameters disagree on
// the feature contract.
func Predict(params Parameters, features map[string]float64) (float64, error) {
	canon := make(map[string]float64, len(features))
	for name, v := range features {
		canon[CanonicalName(name)] = v
	}

	var missing, extra []string
	for name := range params.Coefficients {
		if _, ok := canon[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range canon {
		if _, ok := params.Coefficients[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		sort.Strings(missing)
		sort.Strings(extra)
		return 0, apperrors.Schema("input features do not match model parameters (missing %v, unexpected %v)", missing, extra)
	}

	sum := params.Intercept
	for name, coeff := range params.Coefficients {
		sum += coeff * canon[name]
	}
	return InvLogit(sum), nil
}

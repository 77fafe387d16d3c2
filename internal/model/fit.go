package model

import (
	"log/slog"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// InterceptKey names the intercept entry when parameters are flattened into
// a single keyed set, e.g. for persistence.
const InterceptKey = "intercept"

// CanonicalName normalizes a feature name for parameter storage and lookup.
// Column names are case-insensitive artifacts of the source extract;
// parameters are keyed on one canonical form.
func CanonicalName(name string) string {
	return strings.ToLower(name)
}

// Parameters is a fitted coefficient set keyed by canonical feature name.
type Parameters struct {
	Coefficients map[string]float64
	Intercept    float64
}

// Options controls the least-squares fit.
type Options struct {
	// FitIntercept adds a constant term to the design matrix. Without it
	// the fitted plane passes through the origin.
	FitIntercept bool
}

// Model is a fitted linear model bound to the ordered feature columns it
// was trained on, for batch prediction over tables.
type Model struct {
	features  []string
	coeffs    []float64
	intercept float64
}

// Features returns the ordered feature column names the model was fit on.
func (m *Model) Features() []string { return m.features }

// NewModel rebuilds a batch-prediction model from stored parameters and
// the feature column names to read, matched by canonical name.
func NewModel(params Parameters, features []string) (*Model, error) {
	coeffs := make([]float64, len(features))
	for j, name := range features {
		c, ok := params.Coefficients[CanonicalName(name)]
		if !ok {
			return nil, apperrors.Schema("no coefficient stored for feature %s", name)
		}
		coeffs[j] = c
	}
	if len(params.Coefficients) != len(features) {
		return nil, apperrors.Schema("parameters hold %d coefficients, %d features given", len(params.Coefficients), len(features))
	}
	return &Model{
		features:  append([]string(nil), features...),
		coeffs:    coeffs,
		intercept: params.Intercept,
	}, nil
}

// Fit estimates ordinary least-squares coefficients of response on the
// named feature columns via QR decomposition. Rows with a null in any
// feature or the response are rejected rather than silently dropped.
func Fit(t *table.Table, features []string, response string, opts Options) (Parameters, *Model, error) {
	n := t.NumRows()
	if n == 0 {
		return Parameters{}, nil, apperrors.EmptyOrDuplicate("cannot fit on an empty dataset")
	}
	if len(features) == 0 {
		return Parameters{}, nil, apperrors.Schema("no feature columns given")
	}

	cols := make([]*table.Column, len(features))
	for j, name := range features {
		col, ok := t.Column(name)
		if !ok {
			return Parameters{}, nil, apperrors.Schema("feature column %s is not present", name)
		}
		if col.Kind != table.Float {
			return Parameters{}, nil, apperrors.TypeMismatch("feature column %s must be numeric, got %s", name, col.Kind)
		}
		cols[j] = col
	}
	respCol, ok := t.Column(response)
	if !ok {
		return Parameters{}, nil, apperrors.Schema("response column %s is not present", response)
	}
	if respCol.Kind != table.Float {
		return Parameters{}, nil, apperrors.TypeMismatch("response column %s must be numeric, got %s", response, respCol.Kind)
	}

	p := len(features)
	if opts.FitIntercept {
		p++
	}
	if n < p {
		return Parameters{}, nil, apperrors.Range("%d rows cannot determine %d parameters", n, p)
	}

	x := mat.NewDense(n, p, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		off := 0
		if opts.FitIntercept {
			x.Set(i, 0, 1)
			off = 1
		}
		for j, col := range cols {
			v, valid := col.Float(i)
			if !valid {
				return Parameters{}, nil, apperrors.NullValue("feature column %s is null at row %d", col.Name, i)
			}
			x.Set(i, off+j, v)
		}
		v, valid := respCol.Float(i)
		if !valid {
			return Parameters{}, nil, apperrors.NullValue("response column %s is null at row %d", response, i)
		}
		y.Set(i, 0, v)
	}

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return Parameters{}, nil, apperrors.Range("least-squares solve failed, design matrix is rank deficient: %v", err)
	}

	params := Parameters{Coefficients: make(map[string]float64, len(features))}
	coeffs := make([]float64, len(features))
	off := 0
	if opts.FitIntercept {
		params.Intercept = beta.At(0, 0)
		off = 1
	}
	for j, name := range features {
		c := beta.At(off+j, 0)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Parameters{}, nil, apperrors.Range("coefficient for %s is not finite", name)
		}
		coeffs[j] = c
		params.Coefficients[CanonicalName(name)] = c
	}

	m := &Model{features: append([]string(nil), features...), coeffs: coeffs, intercept: params.Intercept}
	slog.Info("fitted least-squares model", "rows", n, "features", len(features), "intercept", opts.FitIntercept)
	return params, m, nil
}

// PredictTable computes the fitted linear combination for every row and
// adds it as the dest column. Predictions stay on the fitted (log-odds)
// scale; use InvLogit for the response scale.
func (m *Model) PredictTable(t *table.Table, dest string) error {
	if t.NumRows() == 0 {
		return apperrors.EmptyOrDuplicate("cannot predict on an empty dataset")
	}

	cols := make([]*table.Column, len(m.features))
	for j, name := range m.features {
		col, ok := t.Column(name)
		if !ok {
			return apperrors.Schema("feature column %s is not present", name)
		}
		if col.Kind != table.Float {
			return apperrors.TypeMismatch("feature column %s must be numeric, got %s", name, col.Kind)
		}
		cols[j] = col
	}

	out := make([]float64, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		sum := m.intercept
		for j, col := range cols {
			v, valid := col.Float(i)
			if !valid {
				return apperrors.NullValue("feature column %s is null at row %d", col.Name, i)
			}
			sum += m.coeffs[j] * v
		}
		out[i] = sum
	}

	_, err := t.AddFloat(dest, out, nil)
	return err
}

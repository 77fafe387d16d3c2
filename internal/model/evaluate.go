package model

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/apperrors"
	"github.com/jasonsum/2022-msia423-Summer-Jason-project/internal/table"
)

// RMSE computes the root-mean-square error between the observed and
// predicted columns. With fromLogit set, both are mapped through the
// inverse logit first so the error is reported on the probability scale.
func RMSE(t *table.Table, trueCol, predCol string, fromLogit bool) (float64, error) {
	obs, ok := t.Column(trueCol)
	if !ok {
		return 0, apperrors.Schema("column %s is not present", trueCol)
	}
	pred, ok := t.Column(predCol)
	if !ok {
		return 0, apperrors.Schema("column %s is not present", predCol)
	}
	if obs.Kind != table.Float || pred.Kind != table.Float {
		return 0, apperrors.TypeMismatch("columns %s and %s must both be numeric", trueCol, predCol)
	}
	if t.NumRows() == 0 {
		return 0, apperrors.EmptyOrDuplicate("cannot score an empty dataset")
	}

	sum := 0.0
	for i := 0; i < t.NumRows(); i++ {
		o, validO := obs.Float(i)
		p, validP := pred.Float(i)
		if !validO || !validP {
			return 0, apperrors.NullValue("null value at row %d while scoring", i)
		}
		if fromLogit {
			o = InvLogit(o)
			p = InvLogit(p)
		}
		d := o - p
		sum += d * d
	}
	return math.Sqrt(sum / float64(t.NumRows())), nil
}

// ScatterSVG renders an observed-versus-predicted scatter plot with a unit
// diagonal to path as a standalone SVG file. With fromLogit set, values are
// mapped to the probability scale before plotting.
func ScatterSVG(t *table.Table, trueCol, predCol, path string, fromLogit bool) error {
	obs, ok := t.Column(trueCol)
	if !ok {
		return apperrors.Schema("column %s is not present", trueCol)
	}
	pred, ok := t.Column(predCol)
	if !ok {
		return apperrors.Schema("column %s is not present", predCol)
	}
	if t.NumRows() == 0 {
		return apperrors.EmptyOrDuplicate("cannot plot an empty dataset")
	}

	xs := make([]float64, 0, t.NumRows())
	ys := make([]float64, 0, t.NumRows())
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < t.NumRows(); i++ {
		o, validO := obs.Float(i)
		p, validP := pred.Float(i)
		if !validO || !validP {
			continue
		}
		if fromLogit {
			o = InvLogit(o)
			p = InvLogit(p)
		}
		xs = append(xs, p)
		ys = append(ys, o)
		lo = math.Min(lo, math.Min(o, p))
		hi = math.Max(hi, math.Max(o, p))
	}
	if len(xs) == 0 {
		return apperrors.NullValue("no non-null (%s, %s) pairs to plot", trueCol, predCol)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	const size, margin = 640.0, 48.0
	plot := size - 2*margin
	px := func(v float64) float64 { return margin + (v-lo)/(hi-lo)*plot }
	py := func(v float64) float64 { return size - margin - (v-lo)/(hi-lo)*plot }

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`+"\n", size, size, size, size)
	fmt.Fprintf(&b, `<rect width="%.0f" height="%.0f" fill="white"/>`+"\n", size, size)
	fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#999" stroke-dasharray="4 4"/>`+"\n",
		px(lo), py(lo), px(hi), py(hi))
	for i := range xs {
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="2.5" fill="#1f77b4" fill-opacity="0.6"/>`+"\n", px(xs[i]), py(ys[i]))
	}
	fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" text-anchor="middle" font-family="sans-serif" font-size="14">predicted</text>`+"\n",
		size/2, size-margin/3)
	fmt.Fprintf(&b, `<text x="%.0f" y="%.0f" text-anchor="middle" font-family="sans-serif" font-size="14" transform="rotate(-90 %.0f %.0f)">observed</text>`+"\n",
		margin/3, size/2, margin/3, size/2)
	b.WriteString("</svg>\n")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.Connectivity("creating plot directory", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return apperrors.Connectivity("writing evaluation plot", err)
	}
	return nil
}

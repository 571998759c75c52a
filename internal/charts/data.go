package charts

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/garminstats/internal/fitness"

	"github.com/go-gota/gota/dataframe"
)

func floatColumn(df dataframe.DataFrame, col string) ([]float64, error) {
	s := df.Col(col)
	if s.Err != nil {
		return nil, fmt.Errorf("column %s: %w", col, s.Err)
	}
	return s.Float(), nil
}

// validFloats drops NaN cells.
func validFloats(df dataframe.DataFrame, col string) ([]float64, error) {
	values, err := floatColumn(df, col)
	if err != nil {
		return nil, err
	}
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	return valid, nil
}

// floatPairs returns the rows where both columns hold a value.
func floatPairs(df dataframe.DataFrame, xCol, yCol string) (xs, ys []float64, err error) {
	xValues, err := floatColumn(df, xCol)
	if err != nil {
		return nil, nil, err
	}
	yValues, err := floatColumn(df, yCol)
	if err != nil {
		return nil, nil, err
	}
	for i := range xValues {
		if math.IsNaN(xValues[i]) || math.IsNaN(yValues[i]) {
			continue
		}
		xs = append(xs, xValues[i])
		ys = append(ys, yValues[i])
	}
	return xs, ys, nil
}

type timedValue struct {
	t time.Time
	v float64
}

// timedValues pairs start times with a numeric column, oldest first.
func timedValues(df dataframe.DataFrame, col string) ([]timedValue, error) {
	times, ok, err := fitness.FrameTimes(df, fitness.ColStartTime)
	if err != nil {
		return nil, err
	}
	values, err := floatColumn(df, col)
	if err != nil {
		return nil, err
	}

	var tvs []timedValue
	for i := range values {
		if !ok[i] || math.IsNaN(values[i]) {
			continue
		}
		tvs = append(tvs, timedValue{t: times[i], v: values[i]})
	}
	sort.SliceStable(tvs, func(i, j int) bool {
		return tvs[i].t.Before(tvs[j].t)
	})
	return tvs, nil
}

// paddedRange returns axis bounds around the values with some breathing room.
// go-chart refuses to render a zero sized range, so equal bounds are widened.
func paddedRange(values []float64, startAtZero bool) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if startAtZero && lo > 0 {
		lo = 0
	}
	if lo == hi {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	if startAtZero && lo == 0 {
		return 0, hi + pad
	}
	return lo - pad, hi + pad
}

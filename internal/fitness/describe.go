package fitness

import (
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// DescribeStats lists the rows of a Describe frame, in order.
var DescribeStats = []string{"count", "mean", "median", "stddev", "min", "25%", "50%", "75%", "max"}

// Describe summarizes every column like dataframe.Describe, but numeric
// stats only use the cells that hold a value. A column without values gets
// NaN stats, stddev needs at least two values. Non numeric columns only
// report count.
func Describe(df dataframe.DataFrame) dataframe.DataFrame {
	cols := []series.Series{
		series.New(DescribeStats, series.String, "column"),
	}
	for _, name := range df.Names() {
		s := df.Col(name)
		if s.Type() == series.Float || s.Type() == series.Int {
			cols = append(cols, series.New(describeNumbers(s.Float()), series.Float, name))
			continue
		}
		cols = append(cols, series.New(describeText(s), series.String, name))
	}
	return dataframe.New(cols...)
}

func describeNumbers(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	nan := math.NaN()
	if len(valid) == 0 {
		return []float64{0, nan, nan, nan, nan, nan, nan, nan, nan}
	}
	sort.Float64s(valid)

	stddev := nan
	if len(valid) > 1 {
		stddev = stat.StdDev(valid, nil)
	}
	median := stat.Quantile(0.5, stat.Empirical, valid, nil)

	return []float64{
		float64(len(valid)),
		stat.Mean(valid, nil),
		median,
		stddev,
		valid[0],
		stat.Quantile(0.25, stat.Empirical, valid, nil),
		median,
		stat.Quantile(0.75, stat.Empirical, valid, nil),
		valid[len(valid)-1],
	}
}

func describeText(s series.Series) []string {
	count := 0
	for i := 0; i < s.Len(); i++ {
		if !s.Elem(i).IsNA() {
			count++
		}
	}
	out := make([]string, len(DescribeStats))
	out[0] = strconv.Itoa(count)
	for i := 1; i < len(out); i++ {
		out[i] = "-"
	}
	return out
}

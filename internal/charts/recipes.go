package charts

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/2beens/garminstats/internal/fitness"
	"github.com/2beens/garminstats/internal/garmindb"

	"github.com/go-gota/gota/dataframe"
	"github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	ChartTrainingLoadOverTime = "training_load_over_time"
	ChartCaloriesPerMonth     = "calories_per_month"
	ChartAvgHRHistogram       = "avg_hr_histogram"
	ChartCaloriesVsMovingTime = "calories_vs_moving_time"
	ChartHRZonesTimePie       = "hr_zones_time_pie"
	ChartSubSportSharePie     = "sub_sport_share_pie"

	chartWidth      = 1024
	chartHeight     = 640
	histogramBins   = 10
	maxBarWidth     = 60
	minBarWidth     = 4
	barSpacing      = 10
	denseBarSpacing = 2

	singlePointSpan = 24 * time.Hour
)

// renderable is implemented by chart.Chart, chart.BarChart and chart.PieChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

type recipe struct {
	name  string
	build func(df dataframe.DataFrame) (renderable, error)
}

// recipes run in this order
var recipes = []recipe{
	{name: ChartTrainingLoadOverTime, build: trainingLoadOverTime},
	{name: ChartCaloriesPerMonth, build: caloriesPerMonth},
	{name: ChartAvgHRHistogram, build: avgHRHistogram},
	{name: ChartCaloriesVsMovingTime, build: caloriesVsMovingTime},
	{name: ChartHRZonesTimePie, build: hrZonesTimePie},
	{name: ChartSubSportSharePie, build: subSportSharePie},
}

func ChartNames() []string {
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.name)
	}
	return names
}

func findRecipe(name string) (recipe, bool) {
	for _, r := range recipes {
		if r.name == name {
			return r, true
		}
	}
	return recipe{}, false
}

func background() chart.Style {
	return chart.Style{
		Padding: chart.Box{Top: 50, Left: 20, Right: 30, Bottom: 20},
	}
}

func lineStyle() chart.Style {
	return chart.Style{
		StrokeColor: chart.ColorBlue,
		StrokeWidth: 2,
		DotColor:    chart.ColorBlue,
		DotWidth:    3,
	}
}

func trainingLoadOverTime(df dataframe.DataFrame) (renderable, error) {
	tvs, err := timedValues(df, fitness.ColTrainingLoad)
	if err != nil {
		return nil, err
	}
	if len(tvs) == 0 {
		return nil, ErrNoData
	}

	xs := make([]time.Time, 0, len(tvs))
	ys := make([]float64, 0, len(tvs))
	for _, tv := range tvs {
		xs = append(xs, tv.t)
		ys = append(ys, tv.v)
	}

	xAxis := chart.XAxis{
		Name:           "start date",
		ValueFormatter: chart.TimeDateValueFormatter,
	}
	// one start time is a zero width x range, center it in a day instead
	if first := xs[0]; first.Equal(xs[len(xs)-1]) {
		xAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first.Add(-singlePointSpan / 2)),
			Max: chart.TimeToFloat64(first.Add(singlePointSpan / 2)),
		}
	}

	yMin, yMax := paddedRange(ys, true)
	return chart.Chart{
		Title:      "Training load over time",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		XAxis:      xAxis,
		YAxis: chart.YAxis{
			Name:  "training load",
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "training load",
				XValues: xs,
				YValues: ys,
				Style:   lineStyle(),
			},
		},
	}, nil
}

func caloriesPerMonth(df dataframe.DataFrame) (renderable, error) {
	tvs, err := timedValues(df, fitness.ColCalories)
	if err != nil {
		return nil, err
	}
	if len(tvs) == 0 {
		return nil, ErrNoData
	}

	var months []time.Time
	month2calories := make(map[time.Time]float64)
	for _, tv := range tvs {
		month := time.Date(tv.t.Year(), tv.t.Month(), 1, 0, 0, 0, 0, time.Local)
		if _, ok := month2calories[month]; !ok {
			// tvs are sorted, so months come in order
			months = append(months, month)
		}
		month2calories[month] += tv.v
	}

	bars := make([]chart.Value, 0, len(months))
	totals := make([]float64, 0, len(months))
	for _, month := range months {
		bars = append(bars, chart.Value{
			Label: month.Format("Jan 06"),
			Value: month2calories[month],
		})
		totals = append(totals, month2calories[month])
	}

	return barChart("Calories per month", "kcal", bars, totals), nil
}

func avgHRHistogram(df dataframe.DataFrame) (renderable, error) {
	values, err := validFloats(df, fitness.ColAvgHR)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	sort.Float64s(values)

	lo, hi := values[0], values[len(values)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := make([]float64, histogramBins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram bins are half open, the max value has to fit in the last one
	dividers[histogramBins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, values, nil)

	bars := make([]chart.Value, 0, len(counts))
	for i, count := range counts {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%.0f-%.0f", dividers[i], dividers[i+1]),
			Value: count,
		})
	}

	return barChart("Average heart rate distribution", "activities", bars, counts), nil
}

func caloriesVsMovingTime(df dataframe.DataFrame) (renderable, error) {
	movingSeconds, calories, err := floatPairs(df, fitness.ColMovingTime, fitness.ColCalories)
	if err != nil {
		return nil, err
	}
	if len(movingSeconds) == 0 {
		return nil, ErrNoData
	}

	movingMinutes := make([]float64, len(movingSeconds))
	for i, s := range movingSeconds {
		movingMinutes[i] = s / 60
	}

	xMin, xMax := paddedRange(movingMinutes, false)
	yMin, yMax := paddedRange(calories, false)
	return chart.Chart{
		Title:      "Calories vs moving time",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		XAxis: chart.XAxis{
			Name:  "moving time (min)",
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:  "kcal",
			Range: &chart.ContinuousRange{Min: yMin, Max: yMax},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "activities",
				XValues: movingMinutes,
				YValues: calories,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotColor:    chart.ColorRed,
					DotWidth:    5,
				},
			},
		},
	}, nil
}

func hrZonesTimePie(df dataframe.DataFrame) (renderable, error) {
	var values []chart.Value
	for zone := 1; zone <= garmindb.HRZonesCount; zone++ {
		seconds, err := validFloats(df, fitness.ColHRZoneTime(zone))
		if err != nil {
			return nil, err
		}
		minutes := floats.Sum(seconds) / 60
		if minutes <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("Zone %d (%.0f min)", zone, minutes),
			Value: minutes,
		})
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}

	return pieChart("Time in heart rate zones", values), nil
}

func subSportSharePie(df dataframe.DataFrame) (renderable, error) {
	s := df.Col(fitness.ColSubSport)
	if s.Err != nil {
		return nil, fmt.Errorf("column %s: %w", fitness.ColSubSport, s.Err)
	}

	subSport2count := make(map[string]int)
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		subSport2count[el.String()]++
	}
	if len(subSport2count) == 0 {
		return nil, ErrNoData
	}

	subSports := make([]string, 0, len(subSport2count))
	for subSport := range subSport2count {
		subSports = append(subSports, subSport)
	}
	sort.Slice(subSports, func(i, j int) bool {
		ci, cj := subSport2count[subSports[i]], subSport2count[subSports[j]]
		if ci != cj {
			return ci > cj
		}
		return subSports[i] < subSports[j]
	})

	values := make([]chart.Value, 0, len(subSports))
	for _, subSport := range subSports {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", subSport, subSport2count[subSport]),
			Value: float64(subSport2count[subSport]),
		})
	}

	return pieChart("Activities per sub sport", values), nil
}

func barChart(title, yName string, bars []chart.Value, values []float64) chart.BarChart {
	spacing := barSpacing
	if len(bars) > 20 {
		spacing = denseBarSpacing
	}
	usableWidth := chartWidth - 120
	barWidth := usableWidth/len(bars) - spacing
	barWidth = min(max(barWidth, minBarWidth), maxBarWidth)

	// bars grow from zero
	_, yMax := paddedRange(values, true)
	return chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Name:  yName,
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
		},
		Bars: bars,
	}
}

func pieChart(title string, values []chart.Value) chart.PieChart {
	return chart.PieChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: background(),
		Values:     values,
	}
}

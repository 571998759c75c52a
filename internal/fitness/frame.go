package fitness

import (
	"fmt"
	"math"
	"time"

	"github.com/2beens/garminstats/internal/garmindb"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// FrameTimeLayout is how start_time and stop_time are kept in the frame.
const FrameTimeLayout = "2006-01-02 15:04:05"

const (
	ColID                      = "id"
	ColName                    = "name"
	ColSport                   = "sport"
	ColSubSport                = "sub_sport"
	ColTrainingLoad            = "training_load"
	ColTrainingEffect          = "training_effect"
	ColAnaerobicTrainingEffect = "anaerobic_training_effect"
	ColStartTime               = "start_time"
	ColStopTime                = "stop_time"
	ColMovingTime              = "moving_time"
	ColAvgHR                   = "avg_hr"
	ColMaxHR                   = "max_hr"
	ColCalories                = "calories"
)

// ColHRZone returns the zone threshold column name, zone is 1 based.
func ColHRZone(zone int) string {
	return fmt.Sprintf("hrz_%d", zone)
}

// ColHRZoneTime returns the zone duration column name, zone is 1 based.
func ColHRZoneTime(zone int) string {
	return fmt.Sprintf("hrz_%d_time", zone)
}

// Columns lists the frame columns in order.
func Columns() []string {
	cols := []string{
		ColID, ColName, ColSport, ColSubSport,
		ColTrainingLoad, ColTrainingEffect, ColAnaerobicTrainingEffect,
		ColStartTime, ColStopTime, ColMovingTime,
		ColAvgHR, ColMaxHR, ColCalories,
	}
	for zone := 1; zone <= garmindb.HRZonesCount; zone++ {
		cols = append(cols, ColHRZone(zone))
	}
	for zone := 1; zone <= garmindb.HRZonesCount; zone++ {
		cols = append(cols, ColHRZoneTime(zone))
	}
	return cols
}

// ToFrame lays the activities out one per row. Numbers are floats with NaN
// for missing values, durations are seconds, timestamps are FrameTimeLayout
// strings. Missing strings are NA elements.
func ToFrame(activities []*FitnessActivity) dataframe.DataFrame {
	n := len(activities)
	ids := make([]string, n)
	names := make([]interface{}, n)
	sports := make([]interface{}, n)
	subSports := make([]interface{}, n)
	trainingLoad := make([]float64, n)
	trainingEffect := make([]float64, n)
	anaerobicTrainingEffect := make([]float64, n)
	startTimes := make([]interface{}, n)
	stopTimes := make([]interface{}, n)
	movingTime := make([]float64, n)
	avgHR := make([]float64, n)
	maxHR := make([]float64, n)
	calories := make([]float64, n)

	var hrZones, hrZoneTimes [garmindb.HRZonesCount][]float64
	for zone := range hrZones {
		hrZones[zone] = make([]float64, n)
		hrZoneTimes[zone] = make([]float64, n)
	}

	for i, a := range activities {
		ids[i] = a.ID
		names[i] = stringValue(a.Name)
		sports[i] = stringValue(a.Sport)
		subSports[i] = stringValue(a.SubSport)
		trainingLoad[i] = floatValue(a.TrainingLoad)
		trainingEffect[i] = floatValue(a.TrainingEffect)
		anaerobicTrainingEffect[i] = floatValue(a.AnaerobicTrainingEffect)
		startTimes[i] = timeValue(a.StartTime)
		stopTimes[i] = timeValue(a.StopTime)
		movingTime[i] = secondsValue(a.MovingTime)
		avgHR[i] = intValue(a.AvgHR)
		maxHR[i] = intValue(a.MaxHR)
		calories[i] = intValue(a.Calories)
		for zone := 0; zone < garmindb.HRZonesCount; zone++ {
			hrZones[zone][i] = intValue(a.HRZones[zone])
			hrZoneTimes[zone][i] = secondsValue(a.HRZoneTimes[zone])
		}
	}

	cols := []series.Series{
		series.New(ids, series.String, ColID),
		series.New(names, series.String, ColName),
		series.New(sports, series.String, ColSport),
		series.New(subSports, series.String, ColSubSport),
		series.New(trainingLoad, series.Float, ColTrainingLoad),
		series.New(trainingEffect, series.Float, ColTrainingEffect),
		series.New(anaerobicTrainingEffect, series.Float, ColAnaerobicTrainingEffect),
		series.New(startTimes, series.String, ColStartTime),
		series.New(stopTimes, series.String, ColStopTime),
		series.New(movingTime, series.Float, ColMovingTime),
		series.New(avgHR, series.Float, ColAvgHR),
		series.New(maxHR, series.Float, ColMaxHR),
		series.New(calories, series.Float, ColCalories),
	}
	for zone := 0; zone < garmindb.HRZonesCount; zone++ {
		cols = append(cols, series.New(hrZones[zone], series.Float, ColHRZone(zone+1)))
	}
	for zone := 0; zone < garmindb.HRZonesCount; zone++ {
		cols = append(cols, series.New(hrZoneTimes[zone], series.Float, ColHRZoneTime(zone+1)))
	}

	return dataframe.New(cols...)
}

// FrameTimes parses a timestamp column back. ok[i] is false for NA cells.
func FrameTimes(df dataframe.DataFrame, col string) (times []time.Time, ok []bool, err error) {
	s := df.Col(col)
	if s.Err != nil {
		return nil, nil, s.Err
	}

	times = make([]time.Time, s.Len())
	ok = make([]bool, s.Len())
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() {
			continue
		}
		t, err := time.ParseInLocation(FrameTimeLayout, el.String(), time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("column %s row %d: %w", col, i, err)
		}
		times[i] = t
		ok[i] = true
	}
	return times, ok, nil
}

// interface{}(nil) turns into an NA element
func stringValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func timeValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.In(time.Local).Format(FrameTimeLayout)
}

func floatValue(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}

func intValue(i *int) float64 {
	if i == nil {
		return math.NaN()
	}
	return float64(*i)
}

func secondsValue(d *time.Duration) float64 {
	if d == nil {
		return math.NaN()
	}
	return d.Seconds()
}

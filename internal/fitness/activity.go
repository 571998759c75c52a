package fitness

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/garminstats/internal/garmindb"
)

// FitnessActivity is a flat copy of a garmindb activity. Values the device
// did not record stay nil.
type FitnessActivity struct {
	ID                      string
	Name                    *string
	Sport                   *string
	SubSport                *string
	TrainingLoad            *float64
	TrainingEffect          *float64
	AnaerobicTrainingEffect *float64
	StartTime               *time.Time
	StopTime                *time.Time
	MovingTime              *time.Duration
	AvgHR                   *int
	MaxHR                   *int
	Calories                *int
	// HRZones are the hrz_N_hr zone thresholds, zone 1 first
	HRZones [garmindb.HRZonesCount]*int
	// HRZoneTimes are the hrz_N_time durations, zone 1 first
	HRZoneTimes [garmindb.HRZonesCount]*time.Duration
}

func NewFitnessActivity(a garmindb.Activity) (*FitnessActivity, error) {
	fa := &FitnessActivity{
		ID:                      a.ActivityID,
		Name:                    stringOrNil(a.Name.String, a.Name.Valid),
		Sport:                   stringOrNil(a.Sport.String, a.Sport.Valid),
		SubSport:                stringOrNil(a.SubSport.String, a.SubSport.Valid),
		TrainingLoad:            floatOrNil(a.TrainingLoad.Float64, a.TrainingLoad.Valid),
		TrainingEffect:          floatOrNil(a.TrainingEffect.Float64, a.TrainingEffect.Valid),
		AnaerobicTrainingEffect: floatOrNil(a.AnaerobicTrainingEffect.Float64, a.AnaerobicTrainingEffect.Valid),
		AvgHR:                   intOrNil(a.AvgHR.Int64, a.AvgHR.Valid),
		MaxHR:                   intOrNil(a.MaxHR.Int64, a.MaxHR.Valid),
		Calories:                intOrNil(a.Calories.Int64, a.Calories.Valid),
	}

	var err error
	if a.StartTime.Valid {
		if fa.StartTime, err = parseTimestamp(a.StartTime.String); err != nil {
			return nil, fmt.Errorf("activity %s start_time: %w", a.ActivityID, err)
		}
	}
	if a.StopTime.Valid {
		if fa.StopTime, err = parseTimestamp(a.StopTime.String); err != nil {
			return nil, fmt.Errorf("activity %s stop_time: %w", a.ActivityID, err)
		}
	}
	if a.MovingTime.Valid {
		if fa.MovingTime, err = parseDuration(a.MovingTime.String); err != nil {
			return nil, fmt.Errorf("activity %s moving_time: %w", a.ActivityID, err)
		}
	}

	for i := 0; i < garmindb.HRZonesCount; i++ {
		fa.HRZones[i] = intOrNil(a.HRZoneHR[i].Int64, a.HRZoneHR[i].Valid)
		if !a.HRZoneTime[i].Valid {
			continue
		}
		if fa.HRZoneTimes[i], err = parseDuration(a.HRZoneTime[i].String); err != nil {
			return nil, fmt.Errorf("activity %s hrz_%d_time: %w", a.ActivityID, i+1, err)
		}
	}

	return fa, nil
}

// activityJSON is the exported shape, durations in seconds
type activityJSON struct {
	ID                      string     `json:"id"`
	Name                    *string    `json:"name"`
	Sport                   *string    `json:"sport"`
	SubSport                *string    `json:"sub_sport"`
	TrainingLoad            *float64   `json:"training_load"`
	TrainingEffect          *float64   `json:"training_effect"`
	AnaerobicTrainingEffect *float64   `json:"anaerobic_training_effect"`
	StartTime               *time.Time `json:"start_time"`
	StopTime                *time.Time `json:"stop_time"`
	MovingTime              *float64   `json:"moving_time"`
	AvgHR                   *int       `json:"avg_hr"`
	MaxHR                   *int       `json:"max_hr"`
	Calories                *int       `json:"calories"`
	HRZ1                    *int       `json:"hrz_1"`
	HRZ2                    *int       `json:"hrz_2"`
	HRZ3                    *int       `json:"hrz_3"`
	HRZ4                    *int       `json:"hrz_4"`
	HRZ5                    *int       `json:"hrz_5"`
	HRZ1Time                *float64   `json:"hrz_1_time"`
	HRZ2Time                *float64   `json:"hrz_2_time"`
	HRZ3Time                *float64   `json:"hrz_3_time"`
	HRZ4Time                *float64   `json:"hrz_4_time"`
	HRZ5Time                *float64   `json:"hrz_5_time"`
}

func (a *FitnessActivity) MarshalJSON() ([]byte, error) {
	return json.Marshal(activityJSON{
		ID:                      a.ID,
		Name:                    a.Name,
		Sport:                   a.Sport,
		SubSport:                a.SubSport,
		TrainingLoad:            a.TrainingLoad,
		TrainingEffect:          a.TrainingEffect,
		AnaerobicTrainingEffect: a.AnaerobicTrainingEffect,
		StartTime:               a.StartTime,
		StopTime:                a.StopTime,
		MovingTime:              secondsOrNil(a.MovingTime),
		AvgHR:                   a.AvgHR,
		MaxHR:                   a.MaxHR,
		Calories:                a.Calories,
		HRZ1:                    a.HRZones[0],
		HRZ2:                    a.HRZones[1],
		HRZ3:                    a.HRZones[2],
		HRZ4:                    a.HRZones[3],
		HRZ5:                    a.HRZones[4],
		HRZ1Time:                secondsOrNil(a.HRZoneTimes[0]),
		HRZ2Time:                secondsOrNil(a.HRZoneTimes[1]),
		HRZ3Time:                secondsOrNil(a.HRZoneTimes[2]),
		HRZ4Time:                secondsOrNil(a.HRZoneTimes[3]),
		HRZ5Time:                secondsOrNil(a.HRZoneTimes[4]),
	})
}

func parseTimestamp(value string) (*time.Time, error) {
	t, err := garmindb.ParseTimestamp(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseDuration(value string) (*time.Duration, error) {
	d, err := garmindb.ParseTimeOfDayDuration(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func stringOrNil(s string, valid bool) *string {
	if !valid {
		return nil
	}
	return &s
}

func floatOrNil(f float64, valid bool) *float64 {
	if !valid {
		return nil
	}
	return &f
}

func intOrNil(i int64, valid bool) *int {
	if !valid {
		return nil
	}
	v := int(i)
	return &v
}

func secondsOrNil(d *time.Duration) *float64 {
	if d == nil {
		return nil
	}
	s := d.Seconds()
	return &s
}

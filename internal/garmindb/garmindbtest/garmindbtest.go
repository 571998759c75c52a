// Package garmindbtest builds throwaway GarminDB activity stores for tests.
package garmindbtest

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/garminstats/internal/garmindb"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const (
	TimestampLayout = "2006-01-02 15:04:05.000000"
	SportFitness    = "fitness_equipment"
)

var SubSports = []string{
	"indoor_rowing",
	"elliptical",
	"stair_climbing",
	"strength_training",
	"indoor_cycling",
}

// activities table as created by GarminDB, trimmed of columns nothing here reads
const createActivitiesSQL = `CREATE TABLE activities (
	activity_id VARCHAR NOT NULL PRIMARY KEY,
	name VARCHAR,
	description VARCHAR,
	type VARCHAR(11),
	laps INTEGER,
	sport VARCHAR,
	sub_sport VARCHAR,
	training_load FLOAT,
	training_effect FLOAT,
	anaerobic_training_effect FLOAT,
	start_time DATETIME,
	stop_time DATETIME,
	elapsed_time TIME,
	moving_time TIME,
	distance FLOAT,
	avg_hr INTEGER,
	max_hr INTEGER,
	calories INTEGER,
	hrz_1_hr INTEGER,
	hrz_2_hr INTEGER,
	hrz_3_hr INTEGER,
	hrz_4_hr INTEGER,
	hrz_5_hr INTEGER,
	hrz_1_time TIME,
	hrz_2_time TIME,
	hrz_3_time TIME,
	hrz_4_time TIME,
	hrz_5_time TIME
)`

const insertActivitySQL = `INSERT INTO activities (
	activity_id, name, sport, sub_sport,
	training_load, training_effect, anaerobic_training_effect,
	start_time, stop_time, moving_time,
	avg_hr, max_hr, calories,
	hrz_1_hr, hrz_2_hr, hrz_3_hr, hrz_4_hr, hrz_5_hr,
	hrz_1_time, hrz_2_time, hrz_3_time, hrz_4_time, hrz_5_time
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// NewActivitiesDB writes the given activities into a fresh sqlite file
// under t.TempDir and returns its path.
func NewActivitiesDB(t *testing.T, activities ...garmindb.Activity) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "garmin_activities.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close())
	}()

	_, err = db.Exec(createActivitiesSQL)
	require.NoError(t, err)

	for _, a := range activities {
		_, err := db.Exec(
			insertActivitySQL,
			a.ActivityID, a.Name, a.Sport, a.SubSport,
			a.TrainingLoad, a.TrainingEffect, a.AnaerobicTrainingEffect,
			a.StartTime, a.StopTime, a.MovingTime,
			a.AvgHR, a.MaxHR, a.Calories,
			a.HRZoneHR[0], a.HRZoneHR[1], a.HRZoneHR[2], a.HRZoneHR[3], a.HRZoneHR[4],
			a.HRZoneTime[0], a.HRZoneTime[1], a.HRZoneTime[2], a.HRZoneTime[3], a.HRZoneTime[4],
		)
		require.NoError(t, err)
	}

	return path
}

// FakeActivity generates a fully populated activity of the given sport.
func FakeActivity(faker *gofakeit.Faker, sport string) garmindb.Activity {
	start := faker.DateRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, 11, 1, 0, 0, 0, 0, time.Local),
	).Truncate(time.Second)
	moving := time.Duration(faker.Number(20*60, 90*60)) * time.Second

	a := garmindb.Activity{
		ActivityID:              fmt.Sprintf("%d", faker.Number(10_000_000_000, 20_000_000_000)),
		Name:                    NullString(fmt.Sprintf("%s Workout", faker.City())),
		Sport:                   NullString(sport),
		SubSport:                NullString(faker.RandomString(SubSports)),
		TrainingLoad:            NullFloat(faker.Float64Range(10, 250)),
		TrainingEffect:          NullFloat(faker.Float64Range(0.5, 5)),
		AnaerobicTrainingEffect: NullFloat(faker.Float64Range(0, 4)),
		StartTime:               NullString(start.Format(TimestampLayout)),
		StopTime:                NullString(start.Add(moving + 3*time.Minute).Format(TimestampLayout)),
		MovingTime:              NullString(FormatTime(moving)),
		AvgHR:                   NullInt(int64(faker.Number(95, 160))),
		MaxHR:                   NullInt(int64(faker.Number(160, 195))),
		Calories:                NullInt(int64(faker.Number(120, 900))),
	}

	remaining := moving
	for i := 0; i < garmindb.HRZonesCount; i++ {
		a.HRZoneHR[i] = NullInt(int64(100 + i*18))
		zoneTime := remaining / 2
		if i == garmindb.HRZonesCount-1 {
			zoneTime = remaining
		}
		remaining -= zoneTime
		a.HRZoneTime[i] = NullString(FormatTime(zoneTime))
	}

	return a
}

// FormatTime renders a duration as a GarminDB TIME value.
func FormatTime(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d.000000", int(h), int(m), int(s))
}

func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func NullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func NullInt(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: true}
}

package garmindb

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/garminstats/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const HRZonesCount = 5

// Activity is a row of the GarminDB activities table, limited to the
// columns this tool reads. GarminDB leaves most columns NULL when the
// device did not record them.
type Activity struct {
	ActivityID              string
	Name                    sql.NullString
	Sport                   sql.NullString
	SubSport                sql.NullString
	TrainingLoad            sql.NullFloat64
	TrainingEffect          sql.NullFloat64
	AnaerobicTrainingEffect sql.NullFloat64
	StartTime               sql.NullString
	StopTime                sql.NullString
	MovingTime              sql.NullString
	AvgHR                   sql.NullInt64
	MaxHR                   sql.NullInt64
	Calories                sql.NullInt64
	// HRZoneHR holds hrz_1_hr .. hrz_5_hr, the lower bound of each zone
	HRZoneHR [HRZonesCount]sql.NullInt64
	// HRZoneTime holds hrz_1_time .. hrz_5_time
	HRZoneTime [HRZonesCount]sql.NullString
}

// datetime and time columns are cast to text so the driver hands back
// exactly what GarminDB stored instead of guessing a time zone
const selectActivitiesSQL = `SELECT
	activity_id, name, sport, sub_sport,
	training_load, training_effect, anaerobic_training_effect,
	CAST(start_time AS TEXT), CAST(stop_time AS TEXT), CAST(moving_time AS TEXT),
	avg_hr, max_hr, calories,
	hrz_1_hr, hrz_2_hr, hrz_3_hr, hrz_4_hr, hrz_5_hr,
	CAST(hrz_1_time AS TEXT), CAST(hrz_2_time AS TEXT), CAST(hrz_3_time AS TEXT),
	CAST(hrz_4_time AS TEXT), CAST(hrz_5_time AS TEXT)
FROM activities`

type ActivitiesRepo struct {
	db *sql.DB
}

func NewActivitiesRepo(db *sql.DB) *ActivitiesRepo {
	return &ActivitiesRepo{
		db: db,
	}
}

// GetBySport returns all activities of the given sport, oldest first.
func (r *ActivitiesRepo) GetBySport(ctx context.Context, sport string) (_ []Activity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.garmindb.activities.getBySport")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("sport", sport))

	rows, err := r.db.QueryContext(
		ctx,
		selectActivitiesSQL+` WHERE sport = ? ORDER BY start_time ASC, activity_id ASC`,
		sport,
	)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iterate: %w", err)
	}

	span.SetAttributes(attribute.Int("activities.count", len(activities)))

	return activities, nil
}

func (r *ActivitiesRepo) Count(ctx context.Context, sport string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.garmindb.activities.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("sport", sport))

	var count int
	if err := r.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM activities WHERE sport = ?`,
		sport,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}

	return count, nil
}

func scanActivity(rows *sql.Rows) (Activity, error) {
	var a Activity
	err := rows.Scan(
		&a.ActivityID, &a.Name, &a.Sport, &a.SubSport,
		&a.TrainingLoad, &a.TrainingEffect, &a.AnaerobicTrainingEffect,
		&a.StartTime, &a.StopTime, &a.MovingTime,
		&a.AvgHR, &a.MaxHR, &a.Calories,
		&a.HRZoneHR[0], &a.HRZoneHR[1], &a.HRZoneHR[2], &a.HRZoneHR[3], &a.HRZoneHR[4],
		&a.HRZoneTime[0], &a.HRZoneTime[1], &a.HRZoneTime[2], &a.HRZoneTime[3], &a.HRZoneTime[4],
	)
	return a, err
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// ParseTimestamp parses a GarminDB DATETIME value, e.g. "2025-11-18 07:15:02.000000".
// Values without a zone are local time, as GarminDB stores them.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, lastErr)
}

// ParseTimeOfDayDuration parses a GarminDB TIME value used as a duration,
// e.g. "00:42:17.500000".
func ParseTimeOfDayDuration(value string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("parse duration %q: expected HH:MM:SS", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("parse duration %q: invalid hours", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("parse duration %q: invalid minutes", value)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || math.IsNaN(seconds) || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("parse duration %q: invalid seconds", value)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)), nil
}

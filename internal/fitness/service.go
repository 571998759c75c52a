package fitness

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/garminstats/internal/garmindb"
	"github.com/2beens/garminstats/internal/telemetry/metrics"
	"github.com/2beens/garminstats/internal/telemetry/tracing"

	"github.com/go-gota/gota/dataframe"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=fitness_test

type activitiesRepo interface {
	GetBySport(ctx context.Context, sport string) (_ []garmindb.Activity, err error)
}

// Fitness reads activities of one sport and reshapes them.
type Fitness struct {
	repo    activitiesRepo
	sport   string
	metrics *metrics.Manager
}

func NewFitness(repo activitiesRepo, sport string, metricsManager *metrics.Manager) *Fitness {
	return &Fitness{
		repo:    repo,
		sport:   sport,
		metrics: metricsManager,
	}
}

func (f *Fitness) Sport() string {
	return f.sport
}

func (f *Fitness) GetAllActivities(ctx context.Context) (_ []*FitnessActivity, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fitness.getAllActivities")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("sport", f.sport))

	start := time.Now()
	activities, err := f.repo.GetBySport(ctx, f.sport)
	if err != nil {
		return nil, fmt.Errorf("get %s activities: %w", f.sport, err)
	}
	if f.metrics != nil {
		f.metrics.HistFetchDuration.Observe(time.Since(start).Seconds())
		f.metrics.CounterActivitiesFetched.WithLabelValues(f.sport).Add(float64(len(activities)))
	}

	fitnessActivities := make([]*FitnessActivity, 0, len(activities))
	for _, a := range activities {
		fa, err := NewFitnessActivity(a)
		if err != nil {
			return nil, err
		}
		fitnessActivities = append(fitnessActivities, fa)
	}

	log.Debugf("fetched %d %s activities", len(fitnessActivities), f.sport)
	return fitnessActivities, nil
}

func (f *Fitness) GetAllActivitiesFrame(ctx context.Context) (dataframe.DataFrame, error) {
	activities, err := f.GetAllActivities(ctx)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df := ToFrame(activities)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build activities frame: %w", df.Err)
	}
	if f.metrics != nil {
		f.metrics.GaugeFrameRows.Set(float64(df.Nrow()))
	}

	return df, nil
}

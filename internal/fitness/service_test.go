package fitness_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/garminstats/internal/fitness"
	"github.com/2beens/garminstats/internal/garmindb"
	"github.com/2beens/garminstats/internal/garmindb/garmindbtest"
	"github.com/2beens/garminstats/internal/telemetry/metrics"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFitness_GetAllActivities(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	metricsManager := metrics.NewTestManager()
	f := fitness.NewFitness(repoMock, garmindbtest.SportFitness, metricsManager)
	assert.Equal(t, garmindbtest.SportFitness, f.Sport())

	faker := gofakeit.New(11)
	source := []garmindb.Activity{
		garmindbtest.FakeActivity(faker, garmindbtest.SportFitness),
		garmindbtest.FakeActivity(faker, garmindbtest.SportFitness),
		garmindbtest.FakeActivity(faker, garmindbtest.SportFitness),
	}
	repoMock.EXPECT().GetBySport(gomock.Any(), garmindbtest.SportFitness).Return(source, nil)

	activities, err := f.GetAllActivities(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, len(source))
	for i, a := range activities {
		assert.Equal(t, source[i].ActivityID, a.ID)
		require.NotNil(t, a.Calories)
		assert.Equal(t, int(source[i].Calories.Int64), *a.Calories)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(metricsManager.CounterActivitiesFetched.WithLabelValues(garmindbtest.SportFitness)))
}

func TestFitness_GetAllActivities_NoneFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	f := fitness.NewFitness(repoMock, garmindbtest.SportFitness, nil)

	repoMock.EXPECT().GetBySport(gomock.Any(), garmindbtest.SportFitness).Return(nil, nil)

	activities, err := f.GetAllActivities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestFitness_GetAllActivities_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	f := fitness.NewFitness(repoMock, garmindbtest.SportFitness, nil)

	repoErr := errors.New("no such table: activities")
	repoMock.EXPECT().GetBySport(gomock.Any(), garmindbtest.SportFitness).Return(nil, repoErr)

	activities, err := f.GetAllActivities(context.Background())
	require.ErrorIs(t, err, repoErr)
	assert.Nil(t, activities)
	assert.Contains(t, err.Error(), "get fitness_equipment activities")
}

func TestFitness_GetAllActivities_BadTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	f := fitness.NewFitness(repoMock, garmindbtest.SportFitness, nil)

	broken := garmindb.Activity{
		ActivityID: "12345",
		StartTime:  garmindbtest.NullString("last tuesday"),
	}
	repoMock.EXPECT().GetBySport(gomock.Any(), garmindbtest.SportFitness).Return([]garmindb.Activity{broken}, nil)

	_, err := f.GetAllActivities(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity 12345 start_time")
}

func TestFitness_GetAllActivitiesFrame(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	metricsManager := metrics.NewTestManager()
	f := fitness.NewFitness(repoMock, garmindbtest.SportFitness, metricsManager)

	faker := gofakeit.New(5)
	var source []garmindb.Activity
	for i := 0; i < 12; i++ {
		source = append(source, garmindbtest.FakeActivity(faker, garmindbtest.SportFitness))
	}
	repoMock.EXPECT().GetBySport(gomock.Any(), garmindbtest.SportFitness).Return(source, nil)

	df, err := f.GetAllActivitiesFrame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, df.Nrow())
	assert.Equal(t, fitness.Columns(), df.Names())
	assert.Equal(t, 12.0, testutil.ToFloat64(metricsManager.GaugeFrameRows))
}

func TestFitness_GetAllActivitiesFrame_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockactivitiesRepo(ctrl)
	f := fitness.NewFitness(repoMock, garmindbtest.SportFitness, nil)

	repoMock.EXPECT().GetBySport(gomock.Any(), garmindbtest.SportFitness).Return(nil, context.DeadlineExceeded)

	_, err := f.GetAllActivitiesFrame(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

// full path: sqlite store -> repo -> activities -> frame
func TestFitness_WithActivitiesDB(t *testing.T) {
	faker := gofakeit.New(99)
	first := garmindbtest.FakeActivity(faker, garmindbtest.SportFitness)
	first.StartTime = garmindbtest.NullString("2025-02-10 06:30:00.000000")
	first.MovingTime = garmindbtest.NullString("00:45:30.000000")
	second := garmindbtest.FakeActivity(faker, garmindbtest.SportFitness)
	second.StartTime = garmindbtest.NullString("2025-02-12 19:00:00.000000")
	other := garmindbtest.FakeActivity(faker, "running")

	path := garmindbtest.NewActivitiesDB(t, second, other, first)
	db, err := garmindb.Open(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	f := fitness.NewFitness(garmindb.NewActivitiesRepo(db), garmindbtest.SportFitness, nil)
	df, err := f.GetAllActivitiesFrame(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, df.Nrow())

	assert.Equal(t, []string{first.ActivityID, second.ActivityID}, df.Col(fitness.ColID).Records())
	assert.Equal(t, []string{"2025-02-10 06:30:00", "2025-02-12 19:00:00"}, df.Col(fitness.ColStartTime).Records())
	assert.Equal(t, (45*time.Minute + 30*time.Second).Seconds(), df.Col(fitness.ColMovingTime).Float()[0])
}

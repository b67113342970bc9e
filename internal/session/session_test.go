package session

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/scene"
	"pig-logistics/internal/snapshot"
)

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Farms: []domain.Farm{
			{ID: "F1", Lat: 41.95, Lon: 2.20},
			{ID: "F2", Lat: 41.90, Lon: 2.30},
		},
		Activity: []domain.TripRecord{
			{Day: 1, TruckID: "T1", Stops: []string{"F1"}, PigsTotal: 100, WeightTotal: 9000, TripCost: 50, Revenue: 200},
			{Day: 2, TruckID: "T2", Stops: []string{"F2", "F404"}, PigsTotal: 40, WeightTotal: 4000, TripCost: 20, Revenue: 90},
			{Day: 6, TruckID: domain.RestDayTruckID},
		},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	return New(testDataset(), Options{
		Generator: snapshot.FixedGenerator{Default: snapshot.Figures{Inventory: 1500, PigsReady: 60}},
	})
}

func TestNew_Defaults(t *testing.T) {
	s := newTestSession(t)

	assert.NotEqual(t, uuid.Nil, s.ID())
	assert.Equal(t, 1, s.SelectedDay())
	assert.Equal(t, domain.MaxDay, s.MaxDay())
	assert.Equal(t, "S01", s.Params().Origin.ID)
	assert.False(t, s.Ready())

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, 60, snap["F1"].PigsReady)
}

func TestNew_SnapshotDrawnOnce(t *testing.T) {
	s := New(testDataset(), Options{Generator: snapshot.NewRandomGenerator(7)})

	before := s.Snapshot()
	_, err := s.SelectDay(3)
	require.NoError(t, err)
	assert.Equal(t, before, s.Snapshot())
}

func TestSelectDay_Valid(t *testing.T) {
	s := newTestSession(t)

	sc, err := s.SelectDay(2)
	require.NoError(t, err)
	assert.Equal(t, 2, sc.Day)
	assert.Equal(t, 2, s.SelectedDay())
	assert.Equal(t, 40, sc.Metrics.PigsDelivered)
	assert.Equal(t, 1, sc.DroppedStops)
}

func TestSelectDay_OutOfRange(t *testing.T) {
	s := newTestSession(t)

	for _, day := range []int{0, -1, 16, 100} {
		_, err := s.SelectDay(day)
		assert.ErrorIs(t, err, ErrDayOutOfRange, "day %d", day)
	}
	assert.Equal(t, 1, s.SelectedDay())
}

func TestSelectDay_Boundaries(t *testing.T) {
	s := newTestSession(t)

	for _, day := range []int{1, 15} {
		_, err := s.SelectDay(day)
		assert.NoError(t, err, "day %d", day)
	}
}

func TestScene_GatedByReadiness(t *testing.T) {
	s := newTestSession(t)

	_, err := s.Scene()
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = s.SceneFor(1)
	assert.ErrorIs(t, err, ErrNotReady)

	m, err := s.Metrics(1)
	require.NoError(t, err)
	assert.Equal(t, 100, m.PigsDelivered)

	s.MarkReady()
	assert.True(t, s.Ready())

	sc, err := s.Scene()
	require.NoError(t, err)
	assert.Equal(t, 1, sc.Day)
}

func TestSceneFor_DoesNotChangeSelection(t *testing.T) {
	s := newTestSession(t)
	s.MarkReady()

	sc, err := s.SceneFor(6)
	require.NoError(t, err)
	assert.True(t, sc.RestDay)
	assert.Equal(t, 1, s.SelectedDay())

	_, err = s.SceneFor(16)
	assert.ErrorIs(t, err, ErrDayOutOfRange)
}

func TestSubscribe(t *testing.T) {
	s := newTestSession(t)

	var got []string
	unsubscribe := s.Subscribe(func(trigger string, sc scene.Scene) {
		got = append(got, trigger)
		assert.Equal(t, s.SelectedDay(), sc.Day)
	})

	s.MarkReady()
	s.MarkReady()
	_, err := s.SelectDay(2)
	require.NoError(t, err)
	_, err = s.SelectDay(99)
	require.Error(t, err)

	unsubscribe()
	unsubscribe()
	_, err = s.SelectDay(3)
	require.NoError(t, err)

	assert.Equal(t, []string{TriggerReady, TriggerSelect}, got)
}

func TestSession_ConcurrentSelection(t *testing.T) {
	s := newTestSession(t)
	s.MarkReady()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(day int) {
			defer wg.Done()
			_, _ = s.SelectDay(day%15 + 1)
			_, _ = s.Scene()
		}(i)
	}
	wg.Wait()

	day := s.SelectedDay()
	assert.GreaterOrEqual(t, day, 1)
	assert.LessOrEqual(t, day, 15)
}

func TestSelectDay_ListenersFollowSelectionOrder(t *testing.T) {
	s := newTestSession(t)
	s.MarkReady()

	entered := make(chan struct{})
	release := make(chan struct{})

	var mu sync.Mutex
	var pushed []int
	s.Subscribe(func(_ string, sc scene.Scene) {
		if sc.Day == 2 {
			close(entered)
			<-release
		}
		mu.Lock()
		pushed = append(pushed, sc.Day)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = s.SelectDay(2)
	}()
	<-entered

	go func() {
		defer wg.Done()
		_, _ = s.SelectDay(3)
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 3, s.SelectedDay())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{2, 3}, pushed)
}

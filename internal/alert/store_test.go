package alert

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func det(class string, trackID string, distance float64, area float64) Detection {
	d := Detection{Class: class, TrackID: trackID, Confidence: 0.9}
	if distance >= 0 {
		d.DistanceMeters = &distance
	}
	if area > 0 {
		d.BBox = &BBox{X2: area, Y2: 1}
	}
	return d
}

func TestStoreCreateAndRefresh(t *testing.T) {
	store := NewObjectStateStore(DefaultConfig())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	res := store.Observe(det("car", "7", 2.0, 1000), now)
	require.True(t, res.New)
	require.NotNil(t, res.State)
	assert.Equal(t, RiskHigh, res.State.RiskTier)
	assert.Equal(t, DistanceNear, res.State.DistanceTier)
	assert.Equal(t, MotionStationary, res.State.Motion)
	assert.Equal(t, 1, store.Len())

	res = store.Observe(det("car", "7", 2.0, 1100), now.Add(time.Second))
	assert.False(t, res.New)
	assert.False(t, res.DistanceTierChanged)
	assert.False(t, res.RiskTierChanged)
	assert.True(t, res.BecameApproaching, "ratio 1.10 should flip motion to approaching")
	assert.Equal(t, 1, store.Len())

	if diff := cmp.Diff([]float64{1000, 1100}, res.State.SizeHistory); diff != "" {
		t.Errorf("size history mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreTierChangeFlags(t *testing.T) {
	store := NewObjectStateStore(DefaultConfig())
	now := time.Now()

	store.Observe(det("car", "7", 5.0, 1000), now)

	res := store.Observe(det("car", "7", 2.0, 1000), now.Add(time.Second))
	assert.True(t, res.DistanceTierChanged, "FAR -> NEAR must flag a distance tier change")
	assert.False(t, res.RiskTierChanged)
}

func TestStoreSizeHistoryBounded(t *testing.T) {
	store := NewObjectStateStore(DefaultConfig())
	now := time.Now()

	for i := 0; i < 9; i++ {
		store.Observe(det("car", "7", 2.0, float64(1000+i)), now.Add(time.Duration(i)*time.Second))
	}
	st := store.Get("track:7")
	require.NotNil(t, st)
	assert.Len(t, st.SizeHistory, 5, "history must stay capped at 5")
	assert.Equal(t, 1004.0, st.SizeHistory[0], "oldest entries must be dropped first")
	assert.Equal(t, 1008.0, st.SizeHistory[4])
}

func TestStoreMissingBBoxForcesStationary(t *testing.T) {
	store := NewObjectStateStore(DefaultConfig())
	now := time.Now()

	store.Observe(det("car", "7", 2.0, 1000), now)
	store.Observe(det("car", "7", 2.0, 2000), now.Add(time.Second))

	res := store.Observe(det("car", "7", 2.0, 0), now.Add(2*time.Second))
	assert.Equal(t, MotionStationary, res.State.Motion, "zero-area observation degrades to stationary")
}

func TestStoreTiersRecomputedNotSmoothed(t *testing.T) {
	store := NewObjectStateStore(DefaultConfig())
	now := time.Now()

	store.Observe(det("car", "7", 0.5, 1000), now)
	res := store.Observe(det("car", "7", 5.5, 1000), now.Add(time.Second))
	assert.Equal(t, DistanceFar, res.State.DistanceTier, "tier must come from the current cycle only")
}

func TestStoreEvictionAndReidentity(t *testing.T) {
	store := NewObjectStateStore(DefaultConfig())
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	store.Observe(det("person", "9", 2.0, 500), start)

	// Exactly at the window boundary the record survives (strictly greater).
	evicted := store.Sweep(start.Add(5 * time.Second))
	assert.Empty(t, evicted)
	assert.Equal(t, 1, store.Len())

	evicted = store.Sweep(start.Add(5*time.Second + time.Millisecond))
	require.Len(t, evicted, 1)
	assert.Equal(t, "track:9", evicted[0].Identity.Key())
	assert.Equal(t, 0, store.Len())

	// Reappearance is brand-new and immediately announce-eligible.
	res := store.Observe(det("person", "9", 2.0, 500), start.Add(10*time.Second))
	assert.True(t, res.New)
	assert.True(t, res.State.LastAnnounced.IsZero())
}

func TestStoreSyntheticIdentityAliasing(t *testing.T) {
	store := NewObjectStateStore(DefaultConfig())
	now := time.Now()

	a := Detection{Class: "person", Position: PositionLeft, BBox: &BBox{X2: 100, Y2: 10}}
	b := Detection{Class: "person", Position: PositionLeft, BBox: &BBox{X2: 200, Y2: 10}}

	store.Observe(a, now)
	res := store.Observe(b, now)

	// Two same-class objects in one position bucket share a record when no
	// track ID is supplied. Documented behavior, preserved deliberately.
	assert.False(t, res.New)
	assert.Equal(t, 1, store.Len())
}

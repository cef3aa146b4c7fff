package alert

import "time"

// Config holds the tunable parameters of the decision engine.
type Config struct {
	Bounds         DistanceBounds
	Motion         MotionConfig
	EvictionWindow time.Duration // unseen-track lifetime before removal
	ObjectCooldown time.Duration // minimum gap between repeat announcements per object
}

// DefaultConfig returns the deployed engine configuration.
func DefaultConfig() Config {
	return Config{
		Bounds:         DefaultDistanceBounds(),
		Motion:         DefaultMotionConfig(),
		EvictionWindow: 5 * time.Second,
		ObjectCooldown: 10 * time.Second,
	}
}

// TrackedObjectState is the durable per-identity record. It is owned
// exclusively by the ObjectStateStore: created on first sighting, refreshed
// on every subsequent one, and destroyed only by the eviction sweep.
type TrackedObjectState struct {
	Identity Identity
	Class    string
	Position Position

	// Tiers are recomputed fresh from the current detection every cycle,
	// never accumulated or smoothed.
	RiskTier     RiskTier
	DistanceTier DistanceTier

	// SizeHistory is a bounded FIFO of bbox areas, oldest first.
	SizeHistory []float64
	Motion      MotionStatus

	LastSeen      time.Time
	LastAnnounced time.Time
}

// ObserveResult reports what changed when a detection refreshed (or created)
// its tracked state. The scheduler's announce gate keys off these flags.
type ObserveResult struct {
	State *TrackedObjectState

	New                 bool
	DistanceTierChanged bool
	RiskTierChanged     bool
	BecameApproaching   bool
}

// ObjectStateStore holds every live TrackedObjectState, keyed by identity.
// All mutation happens synchronously inside one engine cycle, so the store
// carries no locking.
type ObjectStateStore struct {
	cfg    Config
	states map[string]*TrackedObjectState
}

// NewObjectStateStore returns an empty store.
func NewObjectStateStore(cfg Config) *ObjectStateStore {
	return &ObjectStateStore{
		cfg:    cfg,
		states: make(map[string]*TrackedObjectState),
	}
}

// Observe folds one detection into the store: resolve identity, look up or
// create the record, append the bbox area, and recompute motion and both
// tiers from the current inputs.
func (s *ObjectStateStore) Observe(d Detection, now time.Time) ObserveResult {
	id := ResolveIdentity(d)
	key := id.Key()

	st, ok := s.states[key]
	res := ObserveResult{New: !ok}
	if !ok {
		st = &TrackedObjectState{
			Identity:    id,
			SizeHistory: make([]float64, 0, s.cfg.Motion.HistoryLength),
		}
		s.states[key] = st
	}

	prevDistance := st.DistanceTier
	prevRisk := st.RiskTier
	prevMotion := st.Motion

	area := d.Area()
	st.SizeHistory = append(st.SizeHistory, area)
	if len(st.SizeHistory) > s.cfg.Motion.HistoryLength {
		st.SizeHistory = st.SizeHistory[1:]
	}

	if area == 0 {
		// Missing or malformed bbox: degrade to stationary, never error.
		st.Motion = MotionStationary
	} else {
		st.Motion = InferMotion(st.SizeHistory, s.cfg.Motion)
	}

	st.Class = d.Class
	st.Position = d.Position
	st.RiskTier = ClassifyRisk(d.Class)
	st.DistanceTier = s.cfg.Bounds.Classify(d.Distance())
	st.LastSeen = now

	if !res.New {
		res.DistanceTierChanged = st.DistanceTier != prevDistance
		res.RiskTierChanged = st.RiskTier != prevRisk
		res.BecameApproaching = st.Motion == MotionApproaching && prevMotion != MotionApproaching
	}
	res.State = st
	return res
}

// Get returns the state for an identity key, or nil.
func (s *ObjectStateStore) Get(key string) *TrackedObjectState {
	return s.states[key]
}

// Len returns the number of live records.
func (s *ObjectStateStore) Len() int {
	return len(s.states)
}

// Sweep removes every record unseen for longer than the eviction window and
// returns the evicted states. A reappearing identity is brand-new afterward.
func (s *ObjectStateStore) Sweep(now time.Time) []*TrackedObjectState {
	var evicted []*TrackedObjectState
	for key, st := range s.states {
		if now.Sub(st.LastSeen) > s.cfg.EvictionWindow {
			evicted = append(evicted, st)
			delete(s.states, key)
		}
	}
	return evicted
}

package alert

import (
	"sort"
	"time"

	"github.com/smartcap-data/wayguard/internal/monitoring"
	"github.com/smartcap-data/wayguard/internal/timeutil"
)

// Candidate is the single announcement contender a cycle may produce.
type Candidate struct {
	Key      string
	Text     string
	Score    int
	Critical bool

	state *TrackedObjectState
}

// AnnouncementEvent is what the scheduler reports to its Recorder for every
// dispatch attempt, successful or suppressed.
type AnnouncementEvent struct {
	Time       time.Time
	Key        string
	Class      string
	Text       string
	Priority   Priority
	Score      int
	Dispatched bool
}

// Recorder receives announcement attempts and track evictions. It sits off
// the decision path: implementations must not fail the cycle, so the methods
// return nothing. A nil Recorder is valid.
type Recorder interface {
	RecordAnnouncement(ev AnnouncementEvent)
	RecordEviction(key, class string, lastSeen, evictedAt time.Time)
}

// Scheduler orchestrates one processing cycle: refresh state for every
// current detection, build candidate messages, pick the single
// highest-priority candidate, and dispatch it under the cooldown rules.
//
// Cycles are caller-synchronized and must not overlap; the scheduler has no
// internal parallelism and never blocks.
type Scheduler struct {
	cfg      Config
	store    *ObjectStateStore
	gate     *VoiceGate
	clock    timeutil.Clock
	recorder Recorder
}

// NewScheduler wires a scheduler to its store, voice gate, and clock.
// recorder may be nil.
func NewScheduler(cfg Config, store *ObjectStateStore, gate *VoiceGate, clock timeutil.Clock, recorder Recorder) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		store:    store,
		gate:     gate,
		clock:    clock,
		recorder: recorder,
	}
}

// ProcessCycle advances the engine by one detection batch. An empty batch is
// a valid no-op cycle: existing tracked states simply age toward eviction.
// At most one announcement leaves the cycle.
func (s *Scheduler) ProcessCycle(detections []Detection) {
	now := s.clock.Now()

	ordered := make([]Detection, len(detections))
	copy(ordered, detections)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri := ClassifyRisk(ordered[i].Class).Priority()
		rj := ClassifyRisk(ordered[j].Class).Priority()
		if ri != rj {
			return ri > rj
		}
		return ordered[i].Distance() < ordered[j].Distance()
	})

	var best *Candidate
	for _, d := range ordered {
		if s.cfg.Bounds.Classify(d.Distance()) == DistanceClear {
			continue
		}

		res := s.store.Observe(d, now)
		st := res.State

		eligible := res.New || res.DistanceTierChanged || res.RiskTierChanged || res.BecameApproaching
		if !eligible {
			continue
		}
		if !st.LastAnnounced.IsZero() && now.Sub(st.LastAnnounced) <= s.cfg.ObjectCooldown {
			monitoring.Debugf("cycle: %s eligible but inside object cooldown", st.Identity.Key())
			continue
		}

		text := BuildMessage(st.RiskTier, st.DistanceTier, st.Motion, st.Class, st.Position)
		if text == "" {
			continue
		}

		score := st.DistanceTier.Priority()*10 + st.RiskTier.Priority()
		if best == nil || score > best.Score {
			best = &Candidate{
				Key:      st.Identity.Key(),
				Text:     text,
				Score:    score,
				Critical: st.DistanceTier == DistanceVeryClose,
				state:    st,
			}
		}
	}

	for _, st := range s.store.Sweep(now) {
		monitoring.Debugf("cycle: evicted %s (unseen since %v)", st.Identity.Key(), st.LastSeen)
		if s.recorder != nil {
			s.recorder.RecordEviction(st.Identity.Key(), st.Class, st.LastSeen, now)
		}
	}

	if best == nil {
		return
	}

	priority := PriorityNormal
	if best.Critical {
		priority = PriorityCritical
	}
	dispatched := s.gate.Dispatch(best.Text, priority)
	if dispatched {
		best.state.LastAnnounced = now
	}
	if s.recorder != nil {
		s.recorder.RecordAnnouncement(AnnouncementEvent{
			Time:       now,
			Key:        best.Key,
			Class:      best.state.Class,
			Text:       best.Text,
			Priority:   priority,
			Score:      best.Score,
			Dispatched: dispatched,
		})
	}
}

package alert

import (
	"sync"
	"time"

	"github.com/smartcap-data/wayguard/internal/monitoring"
	"github.com/smartcap-data/wayguard/internal/timeutil"
)

// Priority selects how a dispatch contends for the voice channel.
type Priority string

const (
	// PriorityCritical bypasses the global cooldown and interrupts any
	// in-progress output. Reserved for life-safety alerts.
	PriorityCritical Priority = "critical"
	// PriorityNormal is rejected while the global cooldown is running.
	PriorityNormal Priority = "normal"
)

// Speaker renders an utterance on the audio output. Speak is fire-and-forget:
// the engine never learns whether playback finished. A critical utterance is
// understood to replace whatever the channel is currently playing.
type Speaker interface {
	Speak(text string, critical bool)
}

// VoiceGate owns the single shared voice channel's cooldown clock. Both the
// alert engine and the text read-aloud channel dispatch through one gate, so
// a text announcement suppresses an object alert and vice versa.
type VoiceGate struct {
	clock    timeutil.Clock
	cooldown time.Duration
	speaker  Speaker

	mu         sync.Mutex
	lastSpeech time.Time
}

// NewVoiceGate returns a gate with the given global cooldown.
func NewVoiceGate(clock timeutil.Clock, cooldown time.Duration, speaker Speaker) *VoiceGate {
	return &VoiceGate{
		clock:    clock,
		cooldown: cooldown,
		speaker:  speaker,
	}
}

// Dispatch attempts to speak text. A normal dispatch is rejected outright
// while the cooldown since the channel's last successful dispatch has not
// elapsed, whichever source produced that dispatch. A critical dispatch
// always proceeds. The cooldown clock is stamped only on success.
func (g *VoiceGate) Dispatch(text string, priority Priority) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()
	if priority != PriorityCritical && !g.lastSpeech.IsZero() {
		if now.Sub(g.lastSpeech) < g.cooldown {
			monitoring.Debugf("voice: suppressed %q (cooldown, %v since last speech)", text, now.Sub(g.lastSpeech))
			return false
		}
	}

	g.speaker.Speak(text, priority == PriorityCritical)
	g.lastSpeech = now
	monitoring.Logf("voice: dispatched [%s] %q", priority, text)
	return true
}

// LastSpeechTime returns the shared cooldown clock's last stamp.
func (g *VoiceGate) LastSpeechTime() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastSpeech
}

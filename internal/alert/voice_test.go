package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartcap-data/wayguard/internal/timeutil"
)

type recordingSpeaker struct {
	utterances []string
	criticals  []bool
}

func (s *recordingSpeaker) Speak(text string, critical bool) {
	s.utterances = append(s.utterances, text)
	s.criticals = append(s.criticals, critical)
}

func TestVoiceGateGlobalCooldown(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	spk := &recordingSpeaker{}
	gate := NewVoiceGate(clock, 8*time.Second, spk)

	// First dispatch always goes through.
	assert.True(t, gate.Dispatch("first", PriorityNormal))

	// t=5000: suppressed.
	clock.Advance(5 * time.Second)
	assert.False(t, gate.Dispatch("too soon", PriorityNormal))

	// t=8001: cooldown elapsed.
	clock.Advance(3*time.Second + time.Millisecond)
	assert.True(t, gate.Dispatch("third", PriorityNormal))

	assert.Equal(t, []string{"first", "third"}, spk.utterances)
}

func TestVoiceGateCriticalBypass(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	spk := &recordingSpeaker{}
	gate := NewVoiceGate(clock, 8*time.Second, spk)

	assert.True(t, gate.Dispatch("normal", PriorityNormal))

	clock.Advance(time.Second)
	assert.True(t, gate.Dispatch("critical!", PriorityCritical), "critical always proceeds")
	assert.Equal(t, []bool{false, true}, spk.criticals)
}

func TestVoiceGateStampOnlyOnSuccess(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := timeutil.NewMockClock(start)
	gate := NewVoiceGate(clock, 8*time.Second, &recordingSpeaker{})

	gate.Dispatch("first", PriorityNormal)
	assert.Equal(t, start, gate.LastSpeechTime())

	clock.Advance(4 * time.Second)
	gate.Dispatch("suppressed", PriorityNormal)
	assert.Equal(t, start, gate.LastSpeechTime(), "suppressed attempt must not move the clock")

	clock.Advance(5 * time.Second)
	gate.Dispatch("second", PriorityNormal)
	assert.Equal(t, start.Add(9*time.Second), gate.LastSpeechTime())
}

// A critical dispatch restarts the shared cooldown for subsequent normal
// dispatches from any co-tenant of the channel.
func TestVoiceGateCriticalRestartsCooldown(t *testing.T) {
	clock := timeutil.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	gate := NewVoiceGate(clock, 8*time.Second, &recordingSpeaker{})

	assert.True(t, gate.Dispatch("critical", PriorityCritical))
	clock.Advance(4 * time.Second)
	assert.False(t, gate.Dispatch("normal", PriorityNormal))
}

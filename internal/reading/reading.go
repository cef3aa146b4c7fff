// Package reading announces recognized scene text over the shared voice
// channel. It is a co-tenant of the alert engine's VoiceGate: a text
// announcement and an object alert contend for the same global cooldown, and
// text never dispatches at critical priority.
package reading

import (
	"strings"
	"time"
	"unicode"

	"github.com/smartcap-data/wayguard/internal/alert"
	"github.com/smartcap-data/wayguard/internal/monitoring"
	"github.com/smartcap-data/wayguard/internal/timeutil"
)

const (
	// Spoken text is cut off here; sign and label text beyond this length
	// stops being useful through a speaker.
	maxSpokenChars = 100

	announcePrefix = "Text says: "
)

// Announcer dedupes and dispatches recognized text. Not safe for concurrent
// use; it is driven from the same loop as the alert scheduler.
type Announcer struct {
	gate   *alert.VoiceGate
	clock  timeutil.Clock
	window time.Duration

	lastSpoken map[string]time.Time
}

// NewAnnouncer returns an announcer that suppresses repeats of the same text
// within window.
func NewAnnouncer(gate *alert.VoiceGate, clock timeutil.Clock, window time.Duration) *Announcer {
	return &Announcer{
		gate:       gate,
		clock:      clock,
		window:     window,
		lastSpoken: make(map[string]time.Time),
	}
}

// Announce offers recognized text to the voice channel. It returns true only
// when the text was actually dispatched. Blank or recently-repeated text is
// dropped before it reaches the gate, so it never consumes the cooldown.
func (a *Announcer) Announce(text string) bool {
	key := normalize(text)
	if key == "" {
		return false
	}

	now := a.clock.Now()
	if last, ok := a.lastSpoken[key]; ok && now.Sub(last) < a.window {
		monitoring.Debugf("reading: repeat suppressed: %q", key)
		return false
	}

	spoken := strings.TrimSpace(text)
	if len(spoken) > maxSpokenChars {
		spoken = spoken[:maxSpokenChars]
	}

	if !a.gate.Dispatch(announcePrefix+spoken, alert.PriorityNormal) {
		// Channel busy. Leaving the dedup stamp unset lets the text retry
		// on a later frame.
		return false
	}

	a.lastSpoken[key] = now
	return true
}

// Sweep drops dedup stamps older than the repeat window so the map does not
// grow with every distinct sign the wearer walks past.
func (a *Announcer) Sweep() {
	now := a.clock.Now()
	for key, last := range a.lastSpoken {
		if now.Sub(last) >= a.window {
			delete(a.lastSpoken, key)
		}
	}
}

// normalize collapses whitespace and case so OCR jitter between frames does
// not defeat the repeat window.
func normalize(text string) string {
	var b strings.Builder
	pendingSpace := false
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteRune(' ')
		}
		pendingSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

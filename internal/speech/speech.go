// Package speech renders alert text on the audio output. The engine only ever
// sees the Speaker interface; the backends here cover a headless dev loop
// (LogSpeaker) and the on-device TTS binary (CommandSpeaker).
package speech

import (
	"os/exec"
	"runtime"
	"sync"

	"github.com/smartcap-data/wayguard/internal/monitoring"
)

// LogSpeaker writes utterances to the log instead of the audio device. Used
// in replay runs and tests.
type LogSpeaker struct{}

func (LogSpeaker) Speak(text string, critical bool) {
	if critical {
		monitoring.Logf("speech: [CRITICAL] %s", text)
		return
	}
	monitoring.Logf("speech: %s", text)
}

// DefaultCommand picks the TTS binary for the host platform.
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak"
}

// CommandSpeaker shells out to a TTS binary, one utterance per invocation.
// Speak never blocks on playback. A critical utterance kills whatever is
// still playing first, so the wearer hears the hazard immediately.
type CommandSpeaker struct {
	command string

	mu      sync.Mutex
	current *exec.Cmd
}

// NewCommandSpeaker returns a speaker driving the given binary, or the
// platform default when command is empty.
func NewCommandSpeaker(command string) *CommandSpeaker {
	if command == "" {
		command = DefaultCommand()
	}
	return &CommandSpeaker{command: command}
}

func (s *CommandSpeaker) Speak(text string, critical bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if critical && s.current != nil && s.current.Process != nil {
		if err := s.current.Process.Kill(); err != nil {
			monitoring.Debugf("speech: kill in-flight utterance: %v", err)
		}
	}

	cmd := exec.Command(s.command, text)
	if err := cmd.Start(); err != nil {
		// Degrade to the log rather than silencing the alert entirely.
		monitoring.Logf("speech: %s unavailable (%v), text was: %s", s.command, err, text)
		return
	}
	s.current = cmd

	go func() {
		if err := cmd.Wait(); err != nil {
			monitoring.Debugf("speech: utterance ended: %v", err)
		}
		s.mu.Lock()
		if s.current == cmd {
			s.current = nil
		}
		s.mu.Unlock()
	}()
}

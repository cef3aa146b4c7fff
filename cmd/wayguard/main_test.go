package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcap-data/wayguard/internal/monitoring"
)

func writeInput(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frames.jsonl")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunReplaysFramesToCompletion(t *testing.T) {
	var mu sync.Mutex
	var lines []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	defer monitoring.SetLogger(nil)

	input := writeInput(t,
		`# recorded walk, hallway`,
		`{"detections":[{"class":"person","track_id":"1","distance_m":2.5,"bbox":{"x1":0,"y1":0,"x2":100,"y2":100}}]}`,
		`not json at all`,
		`{"detections":[],"texts":["EXIT"]}`,
	)

	err := run(context.Background(), "", input, "none", false, false, true)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	joined := fmt.Sprint(lines)
	assert.Contains(t, joined, "Person nearby.")
	assert.Contains(t, joined, "skipping malformed frame")
	// Text arrived inside the fresh global cooldown and was suppressed.
	assert.NotContains(t, joined, "Text says: EXIT")
	assert.Contains(t, joined, "input exhausted after 2 cycles")
}

func TestRunMissingInput(t *testing.T) {
	monitoring.SetLogger(nil)
	defer monitoring.SetLogger(nil)

	err := run(context.Background(), "", filepath.Join(t.TempDir(), "missing.jsonl"), "none", false, false, true)
	require.Error(t, err)
}

func TestRunRejectsBadConfig(t *testing.T) {
	monitoring.SetLogger(nil)
	defer monitoring.SetLogger(nil)

	cfgPath := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"near_max_meters": 0.5}`), 0o644))

	input := writeInput(t, `{"detections":[]}`)
	err := run(context.Background(), cfgPath, input, "none", false, false, true)
	require.Error(t, err)
}

func TestRunPersistsAnnouncements(t *testing.T) {
	monitoring.SetLogger(nil)
	defer monitoring.SetLogger(nil)

	input := writeInput(t,
		`{"detections":[{"class":"car","track_id":"7","distance_m":2.0,"bbox":{"x1":0,"y1":0,"x2":100,"y2":100}}]}`,
	)
	dbPath := filepath.Join(t.TempDir(), "walk.db")

	require.NoError(t, run(context.Background(), "", input, dbPath, false, false, true))

	// The dispatch attempt landed in the audit log.
	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

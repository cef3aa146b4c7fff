// wayguard consumes a detection stream and decides, once per cycle, whether
// the wearer needs to hear about anything. Detections arrive as JSONL frames
// from a file or stdin; each frame is one camera cycle.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/smartcap-data/wayguard/internal/alert"
	"github.com/smartcap-data/wayguard/internal/alertdb"
	"github.com/smartcap-data/wayguard/internal/config"
	"github.com/smartcap-data/wayguard/internal/monitoring"
	"github.com/smartcap-data/wayguard/internal/reading"
	"github.com/smartcap-data/wayguard/internal/speech"
	"github.com/smartcap-data/wayguard/internal/timeutil"
	"github.com/smartcap-data/wayguard/internal/version"
)

// frame is one detection cycle on the wire. texts carries any scene text
// recognized in the same camera frame.
type frame struct {
	Detections []alert.Detection `json:"detections"`
	Texts      []string          `json:"texts,omitempty"`
}

func main() {
	configPath := flag.String("config", "", "Path to tuning config JSON (optional)")
	inputPath := flag.String("input", "-", "Detection JSONL file, or - for stdin")
	dbPath := flag.String("db", "", "Override database path; 'none' disables persistence")
	realtime := flag.Bool("realtime", false, "Pace frames at the cycle interval instead of replaying at full speed")
	verbose := flag.Bool("verbose", false, "Log per-cycle decision traces")
	logOnly := flag.Bool("log-speaker", false, "Log utterances instead of invoking the TTS command")
	showVersion := flag.Bool("version", false, "Print build information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *inputPath, *dbPath, *realtime, *verbose, *logOnly); err != nil {
		fmt.Fprintf(os.Stderr, "wayguard: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, inputPath, dbPath string, realtime, verbose, logOnly bool) error {
	cfg := config.EmptyTuningConfig()
	if configPath != "" {
		loaded, err := config.LoadTuningConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	monitoring.SetVerbose(verbose || cfg.GetVerbose())

	engineCfg := alert.Config{
		Bounds: alert.DistanceBounds{
			VeryCloseMax: cfg.GetVeryCloseMaxMeters(),
			NearMax:      cfg.GetNearMaxMeters(),
			FarMax:       cfg.GetFarMaxMeters(),
		},
		Motion: alert.MotionConfig{
			ApproachRatio: cfg.GetApproachRatio(),
			RecedeRatio:   cfg.GetRecedeRatio(),
			HistoryLength: cfg.GetSizeHistoryLength(),
		},
		EvictionWindow: cfg.GetEvictionWindow(),
		ObjectCooldown: cfg.GetObjectCooldown(),
	}

	// No configured TTS command means utterances go to the log.
	var speaker alert.Speaker = speech.LogSpeaker{}
	if cmd := cfg.GetSpeakerCommand(); cmd != "" && !logOnly {
		speaker = speech.NewCommandSpeaker(cmd)
	}

	var recorder alert.Recorder
	path := cfg.GetDatabasePath()
	if dbPath != "" {
		path = dbPath
	}
	if path != "" && path != "none" {
		db, err := alertdb.NewAlertDB(path)
		if err != nil {
			return fmt.Errorf("open alert database: %w", err)
		}
		defer db.Close()
		recorder = alertdb.NewRecorder(db)
		monitoring.Logf("logging announcements to %s", path)
	}

	clock := timeutil.RealClock{}
	gate := alert.NewVoiceGate(clock, cfg.GetVoiceCooldown(), speaker)
	store := alert.NewObjectStateStore(engineCfg)
	scheduler := alert.NewScheduler(engineCfg, store, gate, clock, recorder)
	announcer := reading.NewAnnouncer(gate, clock, cfg.GetTextRepeatWindow())

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	var ticker timeutil.Ticker
	if realtime {
		ticker = clock.NewTicker(cfg.GetCycleInterval())
		defer ticker.Stop()
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	cycles := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var f frame
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			// A mangled frame is a skipped cycle, not a crash.
			monitoring.Logf("skipping malformed frame: %v", err)
			continue
		}

		scheduler.ProcessCycle(f.Detections)
		for _, text := range f.Texts {
			announcer.Announce(text)
		}
		cycles++
		if cycles%300 == 0 {
			announcer.Sweep()
		}

		if ticker != nil {
			select {
			case <-ticker.C():
			case <-ctx.Done():
				monitoring.Logf("shutting down after %d cycles", cycles)
				return nil
			}
		} else if ctx.Err() != nil {
			monitoring.Logf("shutting down after %d cycles", cycles)
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	monitoring.Logf("input exhausted after %d cycles", cycles)
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

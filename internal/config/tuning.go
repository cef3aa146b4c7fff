package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TuningConfig is the root configuration for the alert engine. All fields are
// optional pointers: anything omitted from the JSON file keeps its compiled-in
// default, so partial configs are safe. Defaults match the deployed wearable.
type TuningConfig struct {
	// Distance tier boundaries (meters, inclusive on the lower tier)
	VeryCloseMaxMeters *float64 `json:"very_close_max_meters,omitempty"`
	NearMaxMeters      *float64 `json:"near_max_meters,omitempty"`
	FarMaxMeters       *float64 `json:"far_max_meters,omitempty"`

	// Motion inference params
	ApproachRatio     *float64 `json:"approach_ratio,omitempty"`
	RecedeRatio       *float64 `json:"recede_ratio,omitempty"`
	SizeHistoryLength *int     `json:"size_history_length,omitempty"`

	// Time windows (duration strings like "5s", "10s")
	EvictionWindow *string `json:"eviction_window,omitempty"`
	ObjectCooldown *string `json:"object_cooldown,omitempty"`
	VoiceCooldown  *string `json:"voice_cooldown,omitempty"`
	CycleInterval  *string `json:"cycle_interval,omitempty"`

	// Text read-aloud channel
	TextRepeatWindow *string `json:"text_repeat_window,omitempty"`

	// Output params
	SpeakerCommand *string `json:"speaker_command,omitempty"`
	DatabasePath   *string `json:"database_path,omitempty"`
	Verbose        *bool   `json:"verbose,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field unset. The Get*
// accessors supply defaults for unset fields.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The path must carry
// a .json extension and stay under the max file size.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are coherent.
func (c *TuningConfig) Validate() error {
	vc, near, far := c.GetVeryCloseMaxMeters(), c.GetNearMaxMeters(), c.GetFarMaxMeters()
	if vc <= 0 {
		return fmt.Errorf("very_close_max_meters must be positive, got %f", vc)
	}
	if near <= vc {
		return fmt.Errorf("near_max_meters (%f) must exceed very_close_max_meters (%f)", near, vc)
	}
	if far <= near {
		return fmt.Errorf("far_max_meters (%f) must exceed near_max_meters (%f)", far, near)
	}

	if c.ApproachRatio != nil && *c.ApproachRatio <= 1.0 {
		return fmt.Errorf("approach_ratio must be > 1.0, got %f", *c.ApproachRatio)
	}
	if c.RecedeRatio != nil && (*c.RecedeRatio <= 0 || *c.RecedeRatio >= 1.0) {
		return fmt.Errorf("recede_ratio must be in (0, 1.0), got %f", *c.RecedeRatio)
	}
	if c.SizeHistoryLength != nil && *c.SizeHistoryLength < 2 {
		return fmt.Errorf("size_history_length must be >= 2, got %d", *c.SizeHistoryLength)
	}

	for name, val := range map[string]*string{
		"eviction_window":    c.EvictionWindow,
		"object_cooldown":    c.ObjectCooldown,
		"voice_cooldown":     c.VoiceCooldown,
		"cycle_interval":     c.CycleInterval,
		"text_repeat_window": c.TextRepeatWindow,
	} {
		if val != nil && *val != "" {
			if _, err := time.ParseDuration(*val); err != nil {
				return fmt.Errorf("invalid %s '%s': %w", name, *val, err)
			}
		}
	}

	return nil
}

// GetVeryCloseMaxMeters returns the very_close_max_meters value or the default.
func (c *TuningConfig) GetVeryCloseMaxMeters() float64 {
	if c.VeryCloseMaxMeters == nil {
		return 1.2
	}
	return *c.VeryCloseMaxMeters
}

// GetNearMaxMeters returns the near_max_meters value or the default.
func (c *TuningConfig) GetNearMaxMeters() float64 {
	if c.NearMaxMeters == nil {
		return 3.0
	}
	return *c.NearMaxMeters
}

// GetFarMaxMeters returns the far_max_meters value or the default.
func (c *TuningConfig) GetFarMaxMeters() float64 {
	if c.FarMaxMeters == nil {
		return 6.0
	}
	return *c.FarMaxMeters
}

// GetApproachRatio returns the approach_ratio value or the default.
func (c *TuningConfig) GetApproachRatio() float64 {
	if c.ApproachRatio == nil {
		return 1.05
	}
	return *c.ApproachRatio
}

// GetRecedeRatio returns the recede_ratio value or the default.
func (c *TuningConfig) GetRecedeRatio() float64 {
	if c.RecedeRatio == nil {
		return 0.95
	}
	return *c.RecedeRatio
}

// GetSizeHistoryLength returns the size_history_length value or the default.
func (c *TuningConfig) GetSizeHistoryLength() int {
	if c.SizeHistoryLength == nil {
		return 5
	}
	return *c.SizeHistoryLength
}

func (c *TuningConfig) duration(val *string, fallback time.Duration) time.Duration {
	if val == nil || *val == "" {
		return fallback
	}
	d, err := time.ParseDuration(*val)
	if err != nil {
		return fallback
	}
	return d
}

// GetEvictionWindow returns how long an unseen track survives before removal.
func (c *TuningConfig) GetEvictionWindow() time.Duration {
	return c.duration(c.EvictionWindow, 5*time.Second)
}

// GetObjectCooldown returns the per-object re-announcement cooldown.
func (c *TuningConfig) GetObjectCooldown() time.Duration {
	return c.duration(c.ObjectCooldown, 10*time.Second)
}

// GetVoiceCooldown returns the global voice channel cooldown.
func (c *TuningConfig) GetVoiceCooldown() time.Duration {
	return c.duration(c.VoiceCooldown, 8*time.Second)
}

// GetCycleInterval returns the detection cycle period.
func (c *TuningConfig) GetCycleInterval() time.Duration {
	return c.duration(c.CycleInterval, time.Second)
}

// GetTextRepeatWindow returns the dedup window for repeated read-aloud texts.
func (c *TuningConfig) GetTextRepeatWindow() time.Duration {
	return c.duration(c.TextRepeatWindow, 30*time.Second)
}

// GetSpeakerCommand returns the TTS command or "" when speech should only be
// logged.
func (c *TuningConfig) GetSpeakerCommand() string {
	if c.SpeakerCommand == nil {
		return ""
	}
	return *c.SpeakerCommand
}

// GetDatabasePath returns the database_path value or the default.
func (c *TuningConfig) GetDatabasePath() string {
	if c.DatabasePath == nil {
		return "wayguard.db"
	}
	return *c.DatabasePath
}

// GetVerbose returns the verbose value or the default.
func (c *TuningConfig) GetVerbose() bool {
	if c.Verbose == nil {
		return false
	}
	return *c.Verbose
}

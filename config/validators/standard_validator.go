// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package validators

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ashbuk/croaker/config/models"
)

// Inspect the configuration for invalid or unsafe values.
// It automatically corrects offending values to safe defaults and returns an error
// that aggregates all validation issues found. This ensures the application can
// always run with a sane configuration
func ValidateConfig(config *models.Config) error {
	var errors []string

	if len(config.General.Languages) == 0 {
		config.General.Languages = []string{"en"}
		errors = append(errors, "languages was empty, populated with ['en']")
	}

	if !containsString(config.General.Languages, config.General.Language) {
		errors = append(errors, fmt.Sprintf("current language %q is not in languages list, correcting to %q", config.General.Language, config.General.Languages[0]))
		config.General.Language = config.General.Languages[0]
	}

	if config.General.TempAudioPath != "" {
		// Sanitize path to prevent directory traversal
		config.General.TempAudioPath = filepath.Clean(config.General.TempAudioPath)
		if strings.Contains(config.General.TempAudioPath, "..") {
			config.General.TempAudioPath = "/tmp"
			errors = append(errors, "suspicious temp audio path sanitized to /tmp")
		}
	}

	// Audio sample rate must be within a reasonable range for audio processing
	if config.Audio.SampleRate < 8000 || config.Audio.SampleRate > 48000 {
		errors = append(errors, fmt.Sprintf("invalid sample rate: %d, correcting to 16000", config.Audio.SampleRate))
		config.Audio.SampleRate = 16000
	}

	if config.Audio.Channels <= 0 || config.Audio.Channels > 2 {
		errors = append(errors, fmt.Sprintf("invalid channel count: %d, correcting to 1", config.Audio.Channels))
		config.Audio.Channels = 1
	}

	// Ensure only supported recording methods are used
	validRecordingMethods := map[string]bool{
		"arecord": true,
		"ffmpeg":  true,
		"pulse":   true,
	}
	if !validRecordingMethods[config.Audio.RecordingMethod] {
		errors = append(errors, fmt.Sprintf("invalid recording method: %s, correcting to 'arecord'", config.Audio.RecordingMethod))
		config.Audio.RecordingMethod = "arecord"
	}

	// Max recording time is capped to prevent accidental resource exhaustion
	if config.Audio.MaxRecordingTime <= 0 || config.Audio.MaxRecordingTime > 1800 { // 30 minutes
		errors = append(errors, fmt.Sprintf("invalid max recording time: %d, correcting to 300s", config.Audio.MaxRecordingTime))
		config.Audio.MaxRecordingTime = 300 // 5 minutes
	}

	if config.Audio.StopGraceMs < 0 || config.Audio.StopGraceMs > 5000 {
		errors = append(errors, fmt.Sprintf("invalid stop grace period: %dms, correcting to 500ms", config.Audio.StopGraceMs))
		config.Audio.StopGraceMs = 500
	}

	validOutputModes := map[string]bool{
		models.OutputModeDirect:    true,
		models.OutputModeClipboard: true,
		models.OutputModeBoth:      true,
	}
	if !validOutputModes[config.Output.OutputMode] {
		errors = append(errors, fmt.Sprintf("invalid output mode: %s, correcting to %q", config.Output.OutputMode, models.OutputModeDirect))
		config.Output.OutputMode = models.OutputModeDirect
	}

	if config.Output.KeystrokeDelayMs < 0 {
		errors = append(errors, "negative keystroke delay, correcting to 0ms")
		config.Output.KeystrokeDelayMs = 0
	}

	validBackends := map[string]bool{
		models.OverlayBackendTray:         true,
		models.OverlayBackendNotification: true,
	}
	if config.Overlay.Enabled && !validBackends[config.Overlay.Backend] {
		errors = append(errors, fmt.Sprintf("invalid overlay backend: %s, correcting to %q", config.Overlay.Backend, models.OverlayBackendTray))
		config.Overlay.Backend = models.OverlayBackendTray
	}

	if config.Groq.RequestTimeoutMs <= 0 {
		errors = append(errors, "invalid groq request timeout, correcting to 60000ms")
		config.Groq.RequestTimeoutMs = 60000
	}

	if config.Groq.CleanupEnabled && config.Groq.CleanupModel == "" {
		errors = append(errors, "cleanup enabled with no cleanup model, disabling cleanup")
		config.Groq.CleanupEnabled = false
	}

	// Ensure there's always a baseline of allowed commands for security
	if len(config.Security.AllowedCommands) == 0 {
		config.Security.AllowedCommands = []string{"arecord", "ffmpeg", "xdotool", "wl-copy", "xsel"}
		errors = append(errors, "allowed_commands was empty, populated with defaults")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation issues: %s", strings.Join(errors, "; "))
	}

	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

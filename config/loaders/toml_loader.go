// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package loaders

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ashbuk/croaker/config/models"
	"github.com/ashbuk/croaker/config/validators"
)

// LoadConfig loads configuration from a TOML file. A missing file is not an
// error: defaults are returned and a warning is logged, matching the
// daemon's "run with sane defaults on first launch" behavior.
func LoadConfig(filename string) (*models.Config, error) {
	var config models.Config

	SetDefaultConfig(&config)

	clean := filepath.Clean(filename)
	if strings.Contains(clean, "..") {
		return nil, fmt.Errorf("invalid config path: %s", filename)
	}

	if _, err := os.Stat(clean); err != nil {
		log.Printf("Warning: could not read config file: %v", err)
		log.Println("Using default configuration")
		return &config, nil
	}

	if _, err := toml.DecodeFile(clean, &config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", clean, err)
	}

	if err := validators.ValidateConfig(&config); err != nil {
		log.Printf("Configuration validation error: %v", err)
		log.Println("Using validated configuration with corrections")
	}

	return &config, nil
}

// SetDefaultConfig sets default values for a freshly loaded or newly
// written configuration.
func SetDefaultConfig(config *models.Config) {
	// General settings
	config.General.Debug = false
	config.General.Language = "en"
	config.General.Languages = []string{"en"}
	config.General.TempAudioPath = "/tmp"
	config.General.LogFile = "" // No log file by default

	// Hotkey settings
	config.Hotkeys.PushToTalkKey = "rightctrl"
	config.Hotkeys.PushToTalkEnabled = true
	config.Hotkeys.ToggleShortcut = "ctrl+alt+r"
	config.Hotkeys.ToggleEnabled = true
	config.Hotkeys.OutputModeShortcut = "ctrl+alt+o"
	config.Hotkeys.LanguageShortcut = "ctrl+alt+l"

	// Audio settings
	config.Audio.Device = "default"
	config.Audio.SampleRate = 16000
	config.Audio.Channels = 1
	config.Audio.Format = "s16le"
	config.Audio.RecordingMethod = "arecord"
	config.Audio.MaxRecordingTime = 300 // 5 minutes max by default
	config.Audio.StopGraceMs = 500

	// Groq (remote transcription/cleanup) settings
	config.Groq.KeyFile = "~/.config/croaker/groq.key"
	config.Groq.BaseURL = "https://api.groq.com/openai/v1"
	config.Groq.WhisperModel = "whisper-large-v3"
	config.Groq.RequestTimeoutMs = 60000
	config.Groq.CleanupEnabled = false
	config.Groq.CleanupModel = "llama-3.1-8b-instant"
	config.Groq.CleanupPromptFile = ""

	// Output settings
	config.Output.OutputMode = models.OutputModeBoth
	config.Output.ClipboardTool = "auto" // auto-detect
	config.Output.TypeTool = "auto"      // auto-detect
	config.Output.KeystrokeDelayMs = 0
	config.Output.ClipboardRestore = true

	// Overlay (feedback sink) settings
	config.Overlay.Enabled = true
	config.Overlay.Backend = models.OverlayBackendTray

	// Security settings
	config.Security.AllowedCommands = []string{"arecord", "ffmpeg", "xdotool", "wtype", "ydotool", "wl-copy", "wl-paste", "xclip", "xsel", "notify-send", "xdg-open"}
	config.Security.CheckIntegrity = false
	config.Security.ConfigHash = ""
	config.Security.MaxTempFileSize = 50 * 1024 * 1024 // 50MB by default
}

// SaveConfig writes the configuration back to disk in TOML format.
func SaveConfig(filename string, config *models.Config) error {
	safe := filepath.Clean(filename)
	if strings.Contains(safe, "..") {
		return fmt.Errorf("invalid config path: %s", filename)
	}

	if err := os.MkdirAll(filepath.Dir(safe), 0o750); err != nil {
		return err
	}

	f, err := os.OpenFile(safe, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(config)
}

// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package models

// Output mode constants to avoid magic strings throughout the codebase
const (
	OutputModeDirect    = "direct"
	OutputModeClipboard = "clipboard"
	OutputModeBoth      = "both"
)

// Feedback backend constants
const (
	OverlayBackendTray         = "tray"
	OverlayBackendNotification = "notification"
)

// Config is the root of the TOML configuration tree loaded from
// ~/.config/croaker/config.toml. Field groups mirror spec.md §6.
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Hotkeys  HotkeysConfig  `toml:"hotkeys"`
	Audio    AudioConfig    `toml:"audio"`
	Groq     GroqConfig     `toml:"groq"`
	Output   OutputConfig   `toml:"output"`
	Overlay  OverlayConfig  `toml:"overlay"`
	Security SecurityConfig `toml:"security"`
}

// GeneralConfig holds language selection and daemon-wide paths.
type GeneralConfig struct {
	Debug         bool     `toml:"debug"`
	Language      string   `toml:"language"`  // Currently selected language, must be a member of Languages
	Languages     []string `toml:"languages"` // Ordered cycle for ToggleLanguage
	TempAudioPath string   `toml:"temp_audio_path"`
	LogFile       string   `toml:"log_file"`
}

// HotkeysConfig holds the evdev push-to-talk key, the chorded toggle
// shortcuts, and the compositor-portal toggle shortcut.
type HotkeysConfig struct {
	PushToTalkKey      string `toml:"push_to_talk_key"`
	PushToTalkEnabled  bool   `toml:"push_to_talk_enabled"`
	ToggleShortcut     string `toml:"toggle_shortcut"`
	ToggleEnabled      bool   `toml:"toggle_enabled"`
	OutputModeShortcut string `toml:"output_mode_shortcut"`
	LanguageShortcut   string `toml:"language_shortcut"`
}

// AudioConfig controls the external PCM capture subprocess (AudioRecorder).
type AudioConfig struct {
	Device           string `toml:"device"`
	SampleRate       int    `toml:"sample_rate"`
	Channels         int    `toml:"channels"`
	Format           string `toml:"format"`           // s16le, s24le, s32le
	RecordingMethod  string `toml:"recording_method"` // arecord, ffmpeg, pulse
	MaxRecordingTime int    `toml:"max_recording_time"`
	StopGraceMs      int    `toml:"stop_grace_ms"`
}

// GroqConfig holds remote transcription/cleanup endpoint settings.
// Named after the reference provider; any OpenAI-compatible endpoint works.
type GroqConfig struct {
	KeyFile           string `toml:"key_file"`
	BaseURL           string `toml:"base_url"`
	WhisperModel      string `toml:"whisper_model"`
	RequestTimeoutMs  int    `toml:"request_timeout_ms"`
	CleanupEnabled    bool   `toml:"cleanup_enabled"`
	CleanupModel      string `toml:"cleanup_model"`
	CleanupPromptFile string `toml:"cleanup_prompt_file"`
}

// OutputConfig controls TextInjector behavior.
type OutputConfig struct {
	OutputMode       string `toml:"output_mode"` // direct, clipboard, both
	ClipboardTool    string `toml:"clipboard_tool"`
	TypeTool         string `toml:"type_tool"`
	KeystrokeDelayMs int    `toml:"keystroke_delay_ms"`
	ClipboardRestore bool   `toml:"clipboard_restore"`
}

// OverlayConfig selects the FeedbackSink backend(s).
type OverlayConfig struct {
	Enabled bool   `toml:"enabled"`
	Backend string `toml:"backend"` // tray, notification
}

// SecurityConfig carries the subprocess allowlist and integrity settings.
type SecurityConfig struct {
	AllowedCommands []string `toml:"allowed_commands"`
	CheckIntegrity  bool     `toml:"check_integrity"`
	ConfigHash      string   `toml:"config_hash"`
	MaxTempFileSize int64    `toml:"max_temp_file_size"`
}

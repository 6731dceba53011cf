// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package validators

import (
	"testing"

	"github.com/ashbuk/croaker/config/models"
	"github.com/stretchr/testify/assert"
)

func defaultTestConfig() *models.Config {
	return &models.Config{
		General: models.GeneralConfig{
			Language:      "en",
			Languages:     []string{"en", "fr"},
			TempAudioPath: "/tmp",
		},
		Audio: models.AudioConfig{
			SampleRate:       16000,
			Channels:         1,
			RecordingMethod:  "arecord",
			MaxRecordingTime: 300,
			StopGraceMs:      500,
		},
		Groq: models.GroqConfig{
			RequestTimeoutMs: 60000,
		},
		Output: models.OutputConfig{
			OutputMode: models.OutputModeDirect,
		},
		Overlay: models.OverlayConfig{
			Enabled: true,
			Backend: models.OverlayBackendTray,
		},
		Security: models.SecurityConfig{
			AllowedCommands: []string{"arecord", "ffmpeg", "xdotool", "wl-copy"},
		},
	}
}

func TestValidateConfig_ValidConfigPassesUnchanged(t *testing.T) {
	config := defaultTestConfig()
	err := ValidateConfig(config)

	assert.NoError(t, err)
	assert.Equal(t, 16000, config.Audio.SampleRate)
	assert.Equal(t, "en", config.General.Language)
}

func TestValidateConfig_LanguageNotInList(t *testing.T) {
	config := defaultTestConfig()
	config.General.Language = "de"

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.Equal(t, "en", config.General.Language)
}

func TestValidateConfig_EmptyLanguages(t *testing.T) {
	config := defaultTestConfig()
	config.General.Languages = nil

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.Equal(t, []string{"en"}, config.General.Languages)
}

func TestValidateConfig_SampleRateOutOfRange(t *testing.T) {
	for _, rate := range []int{1000, 100000} {
		config := defaultTestConfig()
		config.Audio.SampleRate = rate

		err := ValidateConfig(config)

		assert.Error(t, err)
		assert.Equal(t, 16000, config.Audio.SampleRate)
	}
}

func TestValidateConfig_InvalidChannels(t *testing.T) {
	config := defaultTestConfig()
	config.Audio.Channels = 5

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.Equal(t, 1, config.Audio.Channels)
}

func TestValidateConfig_InvalidRecordingMethod(t *testing.T) {
	config := defaultTestConfig()
	config.Audio.RecordingMethod = "sox"

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.Equal(t, "arecord", config.Audio.RecordingMethod)
}

func TestValidateConfig_PathTraversalInTempAudioPath(t *testing.T) {
	config := defaultTestConfig()
	config.General.TempAudioPath = "../../etc/passwd"

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.Equal(t, "/tmp", config.General.TempAudioPath)
}

func TestValidateConfig_InvalidOutputMode(t *testing.T) {
	config := defaultTestConfig()
	config.Output.OutputMode = "teleport"

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.Equal(t, models.OutputModeDirect, config.Output.OutputMode)
}

func TestValidateConfig_InvalidOverlayBackendWhenEnabled(t *testing.T) {
	config := defaultTestConfig()
	config.Overlay.Backend = "toast"

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.Equal(t, models.OverlayBackendTray, config.Overlay.Backend)
}

func TestValidateConfig_OverlayBackendIgnoredWhenDisabled(t *testing.T) {
	config := defaultTestConfig()
	config.Overlay.Enabled = false
	config.Overlay.Backend = "toast"

	err := ValidateConfig(config)

	assert.NoError(t, err)
	assert.Equal(t, "toast", config.Overlay.Backend)
}

func TestValidateConfig_EmptyAllowedCommands(t *testing.T) {
	config := defaultTestConfig()
	config.Security.AllowedCommands = nil

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.NotEmpty(t, config.Security.AllowedCommands)
}

func TestValidateConfig_CleanupEnabledWithoutModel(t *testing.T) {
	config := defaultTestConfig()
	config.Groq.CleanupEnabled = true
	config.Groq.CleanupModel = ""

	err := ValidateConfig(config)

	assert.Error(t, err)
	assert.False(t, config.Groq.CleanupEnabled)
}

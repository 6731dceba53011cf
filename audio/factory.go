// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/jfreymuth/pulse"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
)

// RecorderFactory builds a session.AudioRecorder for the configured
// recording method, with an optional startup diagnostic/fallback pass.
type RecorderFactory struct {
	config *config.Config
	log    logger.Logger
}

// NewRecorderFactory creates a factory instance.
func NewRecorderFactory(cfg *config.Config, log logger.Logger) *RecorderFactory {
	return &RecorderFactory{config: cfg, log: log}
}

// NewRecorder builds a recorder for the configured method without testing it.
func (f *RecorderFactory) NewRecorder() (session.AudioRecorder, error) {
	switch f.config.Audio.RecordingMethod {
	case "arecord", "ffmpeg", "pulse":
		return NewRecorder(f.config, f.log), nil
	default:
		return nil, fmt.Errorf("unsupported recording method: %s", f.config.Audio.RecordingMethod)
	}
}

// DiagnoseAudioSystem logs whether the configured capture command and
// device are reachable, to help diagnose a silent "capture produced no
// audio data" failure at startup rather than on first hotkey press.
func (f *RecorderFactory) DiagnoseAudioSystem() {
	f.log.Info("audio diagnostics: method=%s device=%s", f.config.Audio.RecordingMethod, f.config.Audio.Device)

	switch f.config.Audio.RecordingMethod {
	case "ffmpeg":
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			f.log.Warning("ffmpeg not found on PATH: %v", err)
		}
		if out, err := exec.Command("pactl", "list", "short", "sources").Output(); err == nil {
			f.log.Debug("pulseaudio sources:\n%s", string(out))
		} else {
			f.log.Warning("cannot list pulseaudio sources: %v", err)
		}
	case "arecord":
		if _, err := exec.LookPath("arecord"); err != nil {
			f.log.Warning("arecord not found on PATH: %v", err)
		}
		if out, err := exec.Command("arecord", "-l").Output(); err == nil {
			f.log.Debug("alsa capture devices:\n%s", string(out))
		} else {
			f.log.Warning("cannot list alsa devices: %v", err)
		}
	case "pulse":
		client, err := pulse.NewClient()
		if err != nil {
			f.log.Warning("cannot connect to pulseaudio server: %v", err)
			return
		}
		client.Close()
	}
}

// testMethod runs a short capture of the given method to /dev/null to
// verify the command and device actually work, independent of config.
func (f *RecorderFactory) testMethod(method string) error {
	var cmdName string
	var args []string

	switch method {
	case "ffmpeg":
		cmdName = "ffmpeg"
		args = []string{
			"-y", "-f", "alsa", "-i", f.config.Audio.Device,
			"-ar", "16000", "-ac", "1", "-acodec", "pcm_s16le",
			"-t", "0.5", "-f", "null", "-",
		}
	case "arecord":
		cmdName = "arecord"
		args = []string{
			"-D", f.config.Audio.Device, "-f", "S16_LE",
			"-r", "16000", "-c", "1", "-d", "1", "/dev/null",
		}
	case "pulse":
		client, err := pulse.NewClient()
		if err != nil {
			return fmt.Errorf("pulse test failed: %w", err)
		}
		client.Close()
		return nil
	default:
		return fmt.Errorf("unsupported test method: %s", method)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, cmdName, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s test failed: %w (%s)", method, err, string(output))
	}
	return nil
}

// NewRecorderWithFallback tests the configured method and, if it fails,
// tries the remaining known methods in order before giving up.
func (f *RecorderFactory) NewRecorderWithFallback() (session.AudioRecorder, error) {
	f.DiagnoseAudioSystem()

	original := f.config.Audio.RecordingMethod
	if err := f.testMethod(original); err == nil {
		return f.NewRecorder()
	} else {
		f.log.Warning("configured recording method %q failed self-test: %v", original, err)
	}

	for _, method := range []string{"arecord", "ffmpeg", "pulse"} {
		if method == original {
			continue
		}
		if err := f.testMethod(method); err == nil {
			f.log.Info("falling back to recording method %q", method)
			f.config.Audio.RecordingMethod = method
			return f.NewRecorder()
		}
	}

	return nil, fmt.Errorf("no working audio recorder found (tried %q and fallbacks)", original)
}

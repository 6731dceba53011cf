// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/ashbuk/croaker/config"
	"github.com/ashbuk/croaker/internal/logger"
	"github.com/ashbuk/croaker/internal/session"
	"github.com/ashbuk/croaker/internal/utils"
)

// Recorder implements internal/session.AudioRecorder. config.Audio.RecordingMethod
// selects how capture happens: "arecord" or "ffmpeg" spawn an external
// subprocess that writes a WAV file to a temp path; "pulse" connects to the
// PulseAudio server in-process instead (see pulse.go).
type Recorder struct {
	config  *config.Config
	log     logger.Logger
	tempMgr *TempFileManager
}

// NewRecorder builds a Recorder for the given configuration.
func NewRecorder(cfg *config.Config, log logger.Logger) *Recorder {
	return &Recorder{
		config:  cfg,
		log:     log,
		tempMgr: GetTempFileManager(),
	}
}

// Start spawns the capture subprocess and returns a handle the
// SessionController uses to finalize or abort it. The subprocess runs
// under a context derived from ctx, so cancelling ctx also kills it;
// otherwise Stop and Abort end it.
func (r *Recorder) Start(ctx context.Context) (session.RecordingHandle, error) {
	outputFile, err := r.createTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp audio file: %w", err)
	}

	if r.config.Audio.RecordingMethod == "pulse" {
		handle, err := startPulseCapture(outputFile, r.config.Audio.SampleRate, r.tempMgr, r.log)
		if err != nil {
			r.tempMgr.RemoveFile(outputFile, true)
			return nil, err
		}
		return handle, nil
	}

	cmdName, args, err := r.buildCommand(outputFile)
	if err != nil {
		r.tempMgr.RemoveFile(outputFile, true)
		return nil, err
	}

	if !config.IsCommandAllowed(r.config, cmdName) {
		r.tempMgr.RemoveFile(outputFile, true)
		return nil, fmt.Errorf("recording command %q is not in the security allowlist", cmdName)
	}
	args = config.SanitizeCommandArgs(args)

	procCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(procCtx, cmdName, args...)
	if err := cmd.Start(); err != nil {
		cancel()
		r.tempMgr.RemoveFile(outputFile, true)
		return nil, fmt.Errorf("spawn %s: %w", cmdName, err)
	}

	graceMs := r.config.Audio.StopGraceMs
	if graceMs <= 0 {
		graceMs = 500
	}

	return &recordingHandle{
		cmd:        cmd,
		cancel:     cancel,
		outputFile: outputFile,
		tempMgr:    r.tempMgr,
		grace:      time.Duration(graceMs) * time.Millisecond,
		log:        r.log,
	}, nil
}

func (r *Recorder) buildCommand(outputFile string) (string, []string, error) {
	switch r.config.Audio.RecordingMethod {
	case "arecord":
		return "arecord", arecordArgs(r.config, outputFile), nil
	case "ffmpeg":
		return "ffmpeg", ffmpegArgs(r.config, outputFile), nil
	default:
		return "", nil, fmt.Errorf("unsupported recording method: %s", r.config.Audio.RecordingMethod)
	}
}

func (r *Recorder) createTempFile() (string, error) {
	dir := r.config.General.TempAudioPath
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	name := fmt.Sprintf("croaker_%d.wav", time.Now().UnixNano())
	path := dir + string(os.PathSeparator) + name
	r.tempMgr.AddFile(path)
	return path, nil
}

// recordingHandle implements internal/session.RecordingHandle for a single
// in-flight capture subprocess.
type recordingHandle struct {
	mu         sync.Mutex
	cmd        *exec.Cmd
	cancel     context.CancelFunc
	outputFile string
	tempMgr    *TempFileManager
	grace      time.Duration
	log        logger.Logger
	finished   bool
}

// Stop requests a graceful finish: SIGTERM, escalating to SIGKILL when the
// process is still running after one grace period (see stopProcess), then
// verifies the output file was actually written. Grounded on the teacher's StopProcess escalation ladder.
func (h *recordingHandle) Stop(ctx context.Context) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return h.outputFile, nil
	}
	h.finished = true
	defer h.cancel()

	if err := h.stopProcess(); err != nil {
		h.log.Warning("audio capture stop: %v", err)
	}

	if !utils.IsValidFile(h.outputFile) {
		h.tempMgr.RemoveFile(h.outputFile, true)
		return "", errors.New("capture produced no audio data")
	}
	size, err := utils.GetFileSize(h.outputFile)
	if err != nil || size == 0 {
		h.tempMgr.RemoveFile(h.outputFile, true)
		return "", errors.New("capture produced no audio data")
	}

	// The session controller now owns the file's lifecycle (transcription,
	// then deletion on every exit path); stop tracking it here without
	// deleting it out from under that handoff.
	h.tempMgr.RemoveFile(h.outputFile, false)
	return h.outputFile, nil
}

// Abort kills the subprocess immediately and deletes whatever was captured
// so far. Used on Cancel and on controller shutdown.
func (h *recordingHandle) Abort() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.finished {
		return
	}
	h.finished = true
	h.cancel()
	_ = h.stopProcess()
	h.tempMgr.RemoveFile(h.outputFile, true)
}

// stopProcess signals the subprocess to exit, escalating from SIGTERM to
// SIGKILL if it doesn't respond within the grace period, up to three
// retries before giving up.
func (h *recordingHandle) stopProcess() error {
	if h.cmd == nil || h.cmd.Process == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- h.cmd.Wait() }()

	for attempt := 0; attempt < 3; attempt++ {
		var sig os.Signal = syscall.SIGTERM
		if attempt > 0 {
			sig = os.Kill
		}
		if err := h.cmd.Process.Signal(sig); err != nil {
			_ = h.cmd.Process.Kill()
		}

		select {
		case <-done:
			return nil
		case <-time.After(h.grace):
			continue
		}
	}

	_ = h.cmd.Process.Kill()
	select {
	case <-done:
		return nil
	case <-time.After(h.grace):
		return errors.New("capture subprocess did not exit after SIGKILL")
	}
}

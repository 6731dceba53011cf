// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashbuk/croaker/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandle struct {
	path      string
	stopErr   error
	aborted   bool
	stopDelay time.Duration
}

func (h *fakeHandle) Stop(ctx context.Context) (string, error) {
	if h.stopDelay > 0 {
		time.Sleep(h.stopDelay)
	}
	return h.path, h.stopErr
}

func (h *fakeHandle) Abort() { h.aborted = true }

type fakeRecorder struct {
	handle    *fakeHandle
	startErr  error
	startedN  int
}

func (r *fakeRecorder) Start(ctx context.Context) (RecordingHandle, error) {
	r.startedN++
	if r.startErr != nil {
		return nil, r.startErr
	}
	return r.handle, nil
}

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, path, lang string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeCleaner struct{ text string }

func (f *fakeCleaner) Clean(ctx context.Context, raw, prompt, model string) (string, error) {
	return f.text, nil
}

type fakeInjector struct {
	err       error
	lastMode  OutputMode
	lastText  string
	callCount int
}

func (f *fakeInjector) Inject(ctx context.Context, text string, mode OutputMode) error {
	f.callCount++
	f.lastMode = mode
	f.lastText = text
	return f.err
}

func newTestController(t *testing.T) (*Controller, *fakeRecorder, *fakeTranscriber, *fakeInjector) {
	t.Helper()
	tmp := filepath.Join(t.TempDir(), "session.raw")
	require.NoError(t, os.WriteFile(tmp, []byte("pcm-bytes"), 0o600))

	rec := &fakeRecorder{handle: &fakeHandle{path: tmp}}
	tr := &fakeTranscriber{text: "hello world"}
	inj := &fakeInjector{}

	c := NewController(Config{
		Logger:     logger.NewDefaultLogger(logger.ErrorLevel),
		Recorder:   rec,
		Transcribe: tr,
		Cleanup:    &fakeCleaner{},
		Inject:     inj,
		Settings: RuntimeSettings{
			CurrentLanguage: "en",
			Languages:       []string{"en", "fr", "de"},
			OutputMode:      Both,
		},
	})
	return c, rec, tr, inj
}

// waitForPhase polls Phase() with bounded retries instead of a fixed sleep.
func waitForPhase(t *testing.T, c *Controller, want Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Phase() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for phase %v, got %v", want, c.Phase())
}

func TestController_SuccessfulSessionReachesIdle(t *testing.T) {
	c, _, _, inj := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	assert.True(t, c.Submit(StartRecordingEvent()))
	waitForPhase(t, c, Recording)

	assert.True(t, c.Submit(StopRecordingEvent()))
	waitForPhase(t, c, Idle)

	c.Wait()
	assert.Equal(t, 1, inj.callCount)
	assert.Equal(t, "hello world", inj.lastText)
	assert.Equal(t, Both, inj.lastMode)
}

func TestController_CaptureEmptyGoesToIdleWithoutTranscribing(t *testing.T) {
	c, _, tr, _ := newTestController(t)
	c.recorderStopReturnsEmpty(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit(StartRecordingEvent())
	waitForPhase(t, c, Recording)
	c.Submit(StopRecordingEvent())
	waitForPhase(t, c, Idle)

	c.Wait()
	assert.Equal(t, 0, tr.calls, "transcription should not have been invoked")

	state := c.Feedback().Latest()
	assert.True(t, state.HasError)
	assert.Equal(t, ErrCaptureEmpty, state.LastErrorKind)
}

// TestController_SpawnFailureNotifiesAndReturnsIdle covers spec.md §7's
// "abort session, notify user, return to Idle" requirement for a recorder
// that fails to start.
func TestController_SpawnFailureNotifiesAndReturnsIdle(t *testing.T) {
	c, rec, _, _ := newTestController(t)
	rec.startErr = errors.New("device busy")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit(StartRecordingEvent())
	waitForPhase(t, c, Idle)

	state := c.Feedback().Latest()
	assert.True(t, state.HasError)
	assert.Equal(t, ErrSpawnFailed, state.LastErrorKind)
}

func TestController_CancelDuringRecordingDeletesFileAndReturnsIdle(t *testing.T) {
	c, rec, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit(StartRecordingEvent())
	waitForPhase(t, c, Recording)

	c.Submit(CancelEvent())
	waitForPhase(t, c, Idle)

	assert.True(t, rec.handle.aborted)
	_, err := os.Stat(rec.handle.path)
	assert.True(t, os.IsNotExist(err))
}

func TestController_StaleCompletionAfterCancelIsDiscarded(t *testing.T) {
	c, _, _, inj := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit(StartRecordingEvent())
	waitForPhase(t, c, Recording)

	// A completion tagged with session id 1 arrives after the session moved on.
	c.Submit(CancelEvent())
	waitForPhase(t, c, Idle)

	c.Submit(ProcessingCompleteEvent(1, "late text"))
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, Idle, c.Phase())
	assert.Equal(t, 0, inj.callCount)
}

func TestController_ToggleOutputModeCyclesThroughThree(t *testing.T) {
	c, _, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	start := c.Settings().OutputMode
	for i := 0; i < 3; i++ {
		c.Submit(ToggleOutputModeEvent())
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, start, c.Settings().OutputMode)
}

// TestController_ToggleOutputModeFollowsSpecOrder pins the exact cycle
// order spec.md §8 scenario 4 requires starting from the default Both:
// clipboard, then direct, then back to both.
func TestController_ToggleOutputModeFollowsSpecOrder(t *testing.T) {
	c, _, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	require.Equal(t, Both, c.Settings().OutputMode)

	c.Submit(ToggleOutputModeEvent())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, Clipboard, c.Settings().OutputMode)

	c.Submit(ToggleOutputModeEvent())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, Direct, c.Settings().OutputMode)

	c.Submit(ToggleOutputModeEvent())
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, Both, c.Settings().OutputMode)
}

func TestController_ToggleLanguageCyclesThroughAll(t *testing.T) {
	c, _, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	start := c.Settings().CurrentLanguage
	n := len(c.Settings().Languages)
	for i := 0; i < n; i++ {
		c.Submit(ToggleLanguageEvent())
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, start, c.Settings().CurrentLanguage)
}

func TestController_CancelWhileIdleIsNoop(t *testing.T) {
	c, _, _, _ := newTestController(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	assert.True(t, c.Submit(CancelEvent()))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, Idle, c.Phase())
}

func TestController_TranscriptionFailureReturnsToIdle(t *testing.T) {
	c, _, tr, inj := newTestController(t)
	tr.err = errors.New("boom")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit(StartRecordingEvent())
	waitForPhase(t, c, Recording)
	c.Submit(StopRecordingEvent())
	waitForPhase(t, c, Idle)

	c.Wait()
	assert.Equal(t, 0, inj.callCount)
}

func TestController_InjectionFailureStillReturnsToIdle(t *testing.T) {
	c, _, _, inj := newTestController(t)
	inj.err = errors.New("no backend available")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.Submit(StartRecordingEvent())
	waitForPhase(t, c, Recording)
	c.Submit(StopRecordingEvent())
	waitForPhase(t, c, Idle)

	c.Wait()
	assert.Equal(t, 1, inj.callCount)
}

// recorderStopReturnsEmpty reconfigures the controller's handle to mimic a
// zero-length capture: Stop succeeds but returns an empty path, which must
// not reach the transcription client.
func (c *Controller) recorderStopReturnsEmpty(t *testing.T) {
	t.Helper()
	rec, ok := c.recorder.(*fakeRecorder)
	require.True(t, ok)
	rec.handle.path = ""
}

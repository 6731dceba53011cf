// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/ashbuk/croaker/internal/logger"
)

// Controller is the single task that owns Phase and ActiveSession. Every
// other task (InputSources, the IPC server, the pipeline/injector tasks it
// spawns) interacts with it exclusively through the Events channel — this
// is the daemon's single-writer concurrency invariant.
type Controller struct {
	log        logger.Logger
	recorder   AudioRecorder
	transcribe TranscriptionClient
	cleanup    CleanupClient
	inject     TextInjector
	feedback   *Broadcaster

	events chan Event

	// settingsMu guards RuntimeSettings reads that originate outside the
	// controller goroutine (e.g. the IPC "status" command). The controller
	// goroutine itself never needs it: it is the only writer.
	settingsMu sync.RWMutex
	settings   RuntimeSettings

	phase    Phase
	active   *ActiveSession
	sessions uint64 // monotonic session id counter, controller-goroutine only

	wg sync.WaitGroup

	closed atomic.Bool
}

// Config bundles the constructor parameters that come from the loaded
// TOML configuration and the wired components.
type Config struct {
	Logger     logger.Logger
	Recorder   AudioRecorder
	Transcribe TranscriptionClient
	Cleanup    CleanupClient
	Inject     TextInjector
	Settings   RuntimeSettings
}

// NewController wires a Controller. The event channel has capacity 8 per
// the concurrency model's bounded-MPSC requirement; InputSources drop and
// log on overflow rather than block.
func NewController(cfg Config) *Controller {
	c := &Controller{
		log:        cfg.Logger,
		recorder:   cfg.Recorder,
		transcribe: cfg.Transcribe,
		cleanup:    cfg.Cleanup,
		inject:     cfg.Inject,
		settings:   cfg.Settings,
		events:     make(chan Event, 8),
		phase:      Idle,
	}
	c.feedback = NewBroadcaster(c.currentFeedback())
	return c
}

// Events returns the inbound channel InputSources and pipeline tasks send
// on. Sends should use a non-blocking select with a drop-and-log default;
// Submit below does this for callers that don't want to manage the
// channel directly.
func (c *Controller) Events() chan<- Event { return c.events }

// Submit offers an event to the controller without blocking. It reports
// whether the event was accepted; InputSources log a warning on false.
func (c *Controller) Submit(e Event) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.events <- e:
		return true
	default:
		return false
	}
}

// Feedback exposes the broadcaster for FeedbackSink backends to subscribe to.
func (c *Controller) Feedback() *Broadcaster { return c.feedback }

// Phase returns the current phase. Safe to call from any goroutine; it
// only ever observes values the controller goroutine has already committed
// because it is read through the same snapshot path as FeedbackState.
func (c *Controller) Phase() Phase { return c.feedback.Latest().Phase }

// Settings returns an immutable snapshot of the current runtime settings,
// safe to call from the IPC "status" handler running on another goroutine.
func (c *Controller) Settings() RuntimeSettings {
	c.settingsMu.RLock()
	defer c.settingsMu.RUnlock()
	return c.settings.Snapshot()
}

// Run executes the controller's event loop until ctx is cancelled. It is
// meant to be the daemon's single long-lived "controller task".
func (c *Controller) Run(ctx context.Context) {
	defer c.closed.Store(true)
	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case e := <-c.events:
			c.handle(ctx, e)
		}
	}
}

// shutdown aborts any in-flight session best-effort so a captured temp
// file never outlives the process on a clean shutdown path.
func (c *Controller) shutdown() {
	if c.active == nil {
		return
	}
	c.active.Cancel()
	if c.active.handle != nil {
		c.active.handle.Abort()
	}
	if c.active.AudioFile != "" {
		_ = os.Remove(c.active.AudioFile)
	}
	c.active = nil
}

func (c *Controller) handle(ctx context.Context, e Event) {
	switch e.Kind {
	case EventToggleOutputMode:
		c.toggleOutputMode()
		return
	case EventToggleLanguage:
		c.toggleLanguage()
		return
	}

	// Pipeline-originated events carry a session id; discard stale
	// completions that arrive after the session they belong to was
	// cancelled (invariant: "a pipeline completion arriving after Cancel
	// is discarded and does not transition phases").
	if isPipelineEvent(e.Kind) {
		if c.active == nil || c.active.ID != e.SessionID {
			c.log.Debug("discarding stale %s for session %d (current %v)", e.Kind, e.SessionID, c.activeID())
			return
		}
	}

	next, ok := c.phase.next(e.Kind)
	if !ok {
		return // ignored in this phase per the state table
	}

	switch e.Kind {
	case EventStartRecording:
		c.startRecording(ctx, next)
	case EventStopRecording:
		c.stopRecording(ctx, next)
	case EventCancel:
		c.cancelSession(next)
	case EventProcessingComplete:
		c.startOutputting(ctx, next, e.Text)
	case EventOutputComplete:
		c.finishSession(next)
	case EventFailed:
		c.log.Warning("session %d failed: %s (%v)", e.SessionID, e.ErrKind, e.Err)
		c.failSession(next, e.ErrKind)
	}
}

func isPipelineEvent(k EventKind) bool {
	return k == EventProcessingComplete || k == EventOutputComplete || k == EventFailed
}

func (c *Controller) activeID() uint64 {
	if c.active == nil {
		return 0
	}
	return c.active.ID
}

func (c *Controller) startRecording(ctx context.Context, next Phase) {
	c.sessions++
	sessionID := c.sessions
	settings := c.Settings()

	sessCtx, cancel := context.WithCancel(ctx)
	active := &ActiveSession{
		ID:         sessionID,
		Language:   settings.CurrentLanguage,
		OutputMode: settings.OutputMode,
		Cancel:     cancel,
		ctx:        sessCtx,
	}

	handle, err := c.recorder.Start(sessCtx)
	if err != nil {
		c.log.Error("audio capture spawn failed: %v", err)
		cancel()
		c.commitFailed(Idle, ErrSpawnFailed)
		return
	}
	active.handle = handle
	c.active = active
	c.commit(next)
}

func (c *Controller) stopRecording(ctx context.Context, next Phase) {
	active := c.active
	path, err := active.handle.Stop(active.ctx)
	if err != nil || path == "" {
		c.log.Warning("capture finalize failed or produced no audio: %v", err)
		active.Cancel()
		c.active = nil
		c.commitFailed(Idle, ErrCaptureEmpty)
		return
	}
	active.AudioFile = path
	c.commit(next)
	c.spawnPipeline(active)
}

func (c *Controller) cancelSession(next Phase) {
	active := c.active
	if active == nil {
		return
	}
	active.Cancel()
	if active.handle != nil {
		active.handle.Abort()
	}
	if active.AudioFile != "" {
		_ = os.Remove(active.AudioFile)
	}
	c.active = nil
	c.commit(next)
}

func (c *Controller) startOutputting(ctx context.Context, next Phase, text string) {
	active := c.active
	c.commit(next)
	c.spawnInjector(active, text)
}

func (c *Controller) finishSession(next Phase) {
	if c.active != nil && c.active.AudioFile != "" {
		_ = os.Remove(c.active.AudioFile)
	}
	c.active = nil
	c.commit(next)
}

func (c *Controller) failSession(next Phase, kind ErrorKind) {
	if c.active != nil {
		c.active.Cancel()
		if c.active.handle != nil {
			c.active.handle.Abort()
		}
		if c.active.AudioFile != "" {
			_ = os.Remove(c.active.AudioFile)
		}
	}
	c.active = nil
	c.commitFailed(next, kind)
}

// spawnPipeline runs transcription, optional cleanup, and feeds the result
// back to the controller's own event channel, tagged with the session id
// so a late arrival after Cancel is ignored.
func (c *Controller) spawnPipeline(active *ActiveSession) {
	settings := c.Settings()
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		text, err := c.transcribe.Transcribe(active.ctx, active.AudioFile, active.Language)
		if err != nil {
			c.Submit(FailedEvent(active.ID, classifyTranscriptionError(err), err))
			return
		}

		if settings.CleanupEnabled {
			cleaned, err := c.cleanup.Clean(active.ctx, text, settings.CleanupPrompt, settings.CleanupModel)
			if err != nil {
				c.Submit(FailedEvent(active.ID, classifyTranscriptionError(err), err))
				return
			}
			text = cleaned
		}

		c.Submit(ProcessingCompleteEvent(active.ID, text))
	}()
}

// spawnInjector delivers text through the TextInjector and reports
// completion/failure tagged with the owning session id.
func (c *Controller) spawnInjector(active *ActiveSession, text string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.inject.Inject(active.ctx, text, active.OutputMode); err != nil {
			c.Submit(FailedEvent(active.ID, ErrInjectionFailed, err))
			return
		}
		c.Submit(OutputCompleteEvent(active.ID))
	}()
}

func (c *Controller) toggleOutputMode() {
	c.settingsMu.Lock()
	c.settings.OutputMode = nextOutputMode(c.settings.OutputMode)
	snapshot := c.settings.Snapshot()
	c.settingsMu.Unlock()
	c.feedback.Publish(FeedbackState{Phase: c.phase, CurrentLanguage: snapshot.CurrentLanguage, OutputMode: snapshot.OutputMode})
}

func (c *Controller) toggleLanguage() {
	c.settingsMu.Lock()
	c.settings.CurrentLanguage = c.settings.nextLanguage()
	snapshot := c.settings.Snapshot()
	c.settingsMu.Unlock()
	c.feedback.Publish(FeedbackState{Phase: c.phase, CurrentLanguage: snapshot.CurrentLanguage, OutputMode: snapshot.OutputMode})
}

// commit is the only place Phase is mutated; it always publishes feedback
// after the transition, so observers never see a phase the controller has
// not yet entered.
func (c *Controller) commit(p Phase) {
	c.phase = p
	c.feedback.Publish(c.currentFeedback())
}

// commitFailed is commit's error-carrying counterpart: the single publish
// that accompanies a Failed event, so FeedbackSink can show a notification
// for the specific failure before the state settles back to Idle.
func (c *Controller) commitFailed(p Phase, kind ErrorKind) {
	c.phase = p
	state := c.currentFeedback()
	state.HasError = true
	state.LastErrorKind = kind
	c.feedback.Publish(state)
}

func (c *Controller) currentFeedback() FeedbackState {
	settings := c.Settings()
	return FeedbackState{Phase: c.phase, CurrentLanguage: settings.CurrentLanguage, OutputMode: settings.OutputMode}
}

// Wait blocks until all in-flight pipeline/injector goroutines have
// returned. Used by graceful shutdown after Run's context is cancelled.
func (c *Controller) Wait() { c.wg.Wait() }

// Classified is implemented by errors returned from internal/transcribe and
// internal/cleanup that already know their place in the ErrorKind taxonomy
// (AuthError, NetworkError, ServiceError, Timeout, MalformedResponse).
type Classified interface {
	Kind() ErrorKind
}

// classifyTranscriptionError maps an opaque error from the transcription
// or cleanup client onto the ErrorKind taxonomy, falling back to
// ErrService when the client didn't tag it.
func classifyTranscriptionError(err error) ErrorKind {
	if c, ok := err.(Classified); ok {
		return c.Kind()
	}
	return ErrService
}

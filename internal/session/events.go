// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

// EventKind enumerates the messages the controller consumes. Inbound events
// (StartRecording..ToggleLanguage) originate from InputSources; the trailing
// three originate from the pipeline/injector tasks the controller itself
// spawns.
type EventKind int

const (
	EventStartRecording EventKind = iota
	EventStopRecording
	EventCancel
	EventToggleOutputMode
	EventToggleLanguage
	EventProcessingComplete
	EventOutputComplete
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStartRecording:
		return "StartRecording"
	case EventStopRecording:
		return "StopRecording"
	case EventCancel:
		return "Cancel"
	case EventToggleOutputMode:
		return "ToggleOutputMode"
	case EventToggleLanguage:
		return "ToggleLanguage"
	case EventProcessingComplete:
		return "ProcessingComplete"
	case EventOutputComplete:
		return "OutputComplete"
	case EventFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Event is the single message type carried on the controller's inbound
// channel. SessionID is populated only on pipeline-originated events
// (ProcessingComplete/OutputComplete/Failed); the controller compares it
// against the current ActiveSession to discard completions that arrive
// after a Cancel.
type Event struct {
	Kind      EventKind
	SessionID uint64
	Text      string // payload of ProcessingComplete
	ErrKind   ErrorKind
	Err       error
}

// StartRecordingEvent, StopRecordingEvent, CancelEvent, ToggleOutputModeEvent
// and ToggleLanguageEvent are convenience constructors for InputSources;
// they carry no session id because the controller assigns one itself on
// Idle->Recording.
func StartRecordingEvent() Event      { return Event{Kind: EventStartRecording} }
func StopRecordingEvent() Event       { return Event{Kind: EventStopRecording} }
func CancelEvent() Event              { return Event{Kind: EventCancel} }
func ToggleOutputModeEvent() Event    { return Event{Kind: EventToggleOutputMode} }
func ToggleLanguageEvent() Event      { return Event{Kind: EventToggleLanguage} }

// ProcessingCompleteEvent, OutputCompleteEvent and FailedEvent are used by
// the pipeline/injector tasks spawned by the controller; they must carry
// the session id the task was started with.
func ProcessingCompleteEvent(sessionID uint64, text string) Event {
	return Event{Kind: EventProcessingComplete, SessionID: sessionID, Text: text}
}

func OutputCompleteEvent(sessionID uint64) Event {
	return Event{Kind: EventOutputComplete, SessionID: sessionID}
}

func FailedEvent(sessionID uint64, kind ErrorKind, err error) Event {
	return Event{Kind: EventFailed, SessionID: sessionID, ErrKind: kind, Err: err}
}

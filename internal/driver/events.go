package driver

import "time"

// Stage describes a step of the per-file pipeline.
type Stage string

const (
	// StageLoad reads and decodes the file.
	StageLoad Stage = "load"
	// StageParse builds the syntax tree.
	StageParse Stage = "parse"
	// StageCheck runs the lint rules.
	StageCheck Stage = "check"
	// StageFix rebuilds the tree or applies text edits.
	StageFix Stage = "fix"
	// StageEnhance rewrites asserts.
	StageEnhance Stage = "enhance"
	// StageWrite persists the result.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is currently in a stage.
	StatusWorking Status = "working"
	// StatusDone indicates the file is finished.
	StatusDone Status = "done"
	// StatusError indicates the file could not be processed.
	StatusError Status = "error"
)

// Event reports progress for a file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, evt Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(evt)
}

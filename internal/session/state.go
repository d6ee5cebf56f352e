package session

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid state transition")
)

type State string

const (
	StateUploaded   State = "UPLOADED"
	StateParsed     State = "PARSED"
	StateCleaned    State = "CLEANED"
	StateVisualized State = "VISUALIZED"
	StateConverted  State = "CONVERTED"
	StateDownloaded State = "DOWNLOADED"
	StateFailed     State = "FAILED"
)

// Event is an operation applied to a file session.
type Event string

const (
	EventParse     Event = "parse"
	EventParseFail Event = "parse_fail"
	EventClean     Event = "clean"
	EventVisualize Event = "visualize"
	EventConvert   Event = "convert"
	EventDownload  Event = "download"
)

// Parsed reports whether a table is available in this state.
func (s State) Parsed() bool {
	switch s {
	case StateParsed, StateCleaned, StateVisualized, StateConverted, StateDownloaded:
		return true
	}
	return false
}

// Next returns the state reached by applying ev, or ErrInvalidTransition.
//
//	UPLOADED -> PARSED | FAILED
//	PARSED -> CLEANED* -> VISUALIZED? -> CONVERTED -> DOWNLOADED
//
// Cleaning is allowed from every parsed state and lands in CLEANED.
// Visualizing only moves PARSED and CLEANED; later states stay put.
// Converting is allowed from every parsed state. Downloading needs an
// artifact.
func (s State) Next(ev Event) (State, error) {
	switch ev {
	case EventParse:
		if s == StateUploaded {
			return StateParsed, nil
		}
	case EventParseFail:
		if s == StateUploaded {
			return StateFailed, nil
		}
	case EventClean:
		if s.Parsed() {
			return StateCleaned, nil
		}
	case EventVisualize:
		switch s {
		case StateParsed, StateCleaned:
			return StateVisualized, nil
		case StateVisualized, StateConverted, StateDownloaded:
			return s, nil
		}
	case EventConvert:
		if s.Parsed() {
			return StateConverted, nil
		}
	case EventDownload:
		if s == StateConverted || s == StateDownloaded {
			return StateDownloaded, nil
		}
	}
	return s, fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, ev, s)
}

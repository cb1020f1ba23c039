package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveSession is returned when an action requires an open session
	// and none exists, either locally or in the remote log.
	ErrNoActiveSession = errors.New("no active session")
	// ErrAlreadyClockedIn is returned by Start while a session is open.
	ErrAlreadyClockedIn = errors.New("already clocked in")
	// ErrAlreadyPaused is returned by Pause while already on break.
	ErrAlreadyPaused = errors.New("already on break")
	// ErrNotPaused is returned by Resume while not on break.
	ErrNotPaused = errors.New("not on break")
)

// RemoteWriteError wraps a failed append to the remote record store. The
// tracker performs no local mutation when an append fails, so callers can
// always offer a plain retry.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteWriteError) Unwrap() error {
	return e.Err
}

func writeErr(op string, err error) error {
	return &RemoteWriteError{Op: op, Err: err}
}

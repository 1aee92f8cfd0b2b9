package timer

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the ways a single invocation can fail.
type ErrorKind int

const (
	// SpawnFailure means the OS could not create the child process.
	SpawnFailure ErrorKind = iota + 1
	// TimerFailure means a CPU or wall clock reading could not be taken.
	TimerFailure
	// ReapFailure means waiting for the child or reading its usage failed.
	ReapFailure
)

// Sentinels for use with errors.Is.
var (
	ErrSpawn = errors.New("spawn failed")
	ErrTimer = errors.New("timer failed")
	ErrReap  = errors.New("reap failed")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case SpawnFailure:
		return ErrSpawn
	case TimerFailure:
		return ErrTimer
	case ReapFailure:
		return ErrReap
	}
	return nil
}

func (k ErrorKind) String() string {
	if err := k.sentinel(); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by Execute when an invocation could not be measured.
type Error struct {
	Kind    ErrorKind
	Command string
	Err     error
}

func newError(kind ErrorKind, command string, err error) *Error {
	return &Error{Kind: kind, Command: command, Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Command, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel matching e.Kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

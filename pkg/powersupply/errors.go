package powersupply

import (
	"errors"
	"fmt"
)

// Kind classifies why an attribute could not be read.
type Kind int

const (
	// KindNotFound means the attribute file does not exist.
	KindNotFound Kind = iota
	// KindIO means the attribute file exists but could not be read.
	KindIO
	// KindParse means the attribute was read but its value is malformed.
	KindParse
)

var kinds = [...]string{"not found", "io failure", "parse failure"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kinds[k]
}

var (
	// ErrNotFound matches any *Error of KindNotFound via errors.Is.
	ErrNotFound = errors.New("power supply attribute not found")

	// ErrIO matches any *Error of KindIO via errors.Is.
	ErrIO = errors.New("power supply attribute io failure")

	// ErrParse matches any *Error of KindParse via errors.Is.
	ErrParse = errors.New("power supply attribute parse failure")
)

// Error is returned by every attribute read. The underlying cause is kept.
type Error struct {
	Kind Kind
	Attr string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to read %s (%s): %s: %v", e.Attr, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrIO:
		return e.Kind == KindIO
	case ErrParse:
		return e.Kind == KindParse
	}
	return false
}

package playback

import (
	"errors"
	"fmt"
)

// ErrorPlay is returned if stream was successfully started, but playback
// and/or close failed.
type ErrorPlay struct {
	ErrPlay  error
	ErrClose error
}

func (e *ErrorPlay) Error() string {
	switch {
	case e.ErrPlay != nil && e.ErrClose != nil:
		return fmt.Sprintf("close error: %v after play error: %v", e.ErrClose, e.ErrPlay)
	case e.ErrPlay != nil:
		return fmt.Sprintf("play error: %v", e.ErrPlay)
	case e.ErrClose != nil:
		return fmt.Sprintf("close error: %v", e.ErrClose)
	}
	return ""
}

// Is checks if any of errors match provided sentinel error.
func (e *ErrorPlay) Is(err error) bool {
	if e.ErrPlay != nil && errors.Is(e.ErrPlay, err) {
		return true
	}
	if e.ErrClose != nil && errors.Is(e.ErrClose, err) {
		return true
	}
	return false
}

// ret returns untyped nil if there are no errors.
func (e *ErrorPlay) ret() error {
	if e.ErrPlay == nil && e.ErrClose == nil {
		return nil
	}
	return e
}

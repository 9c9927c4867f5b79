package liststore

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName       = errors.New("item name is empty")
	ErrInvalidCategory = errors.New("no valid category selected")
	ErrDuplicateName   = errors.New("an item with this name already exists")
	ErrNotFound        = errors.New("item not found")
	ErrCorruptState    = errors.New("stored list is corrupt")
	ErrPersist         = errors.New("failed to persist list")
)

// ValidationError reports why AddItem rejected its input.
// It unwraps to one of ErrEmptyName, ErrInvalidCategory, ErrDuplicateName.
type ValidationError struct {
	Name       string
	CategoryID int
	Err        error
}

func (e *ValidationError) Error() string {
	switch e.Err {
	case ErrInvalidCategory:
		return fmt.Sprintf("add %q: %v (got %d)", e.Name, e.Err, e.CategoryID)
	case ErrEmptyName:
		return "add: " + e.Err.Error()
	}
	return fmt.Sprintf("add %q: %v", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// CorruptStateError is returned by Load when the slot holds bytes that
// are not a well-formed list.
type CorruptStateError struct {
	Key    string
	Reason string
	Err    error
}

func (e *CorruptStateError) Error() string {
	msg := fmt.Sprintf("load %q: %v: %s", e.Key, ErrCorruptState, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }
func (e *CorruptStateError) Unwrap() error        { return e.Err }

// PersistError wraps a failed write to the slot. The in-memory list has
// already been rolled back when it is returned.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrPersist, e.Err)
}

func (e *PersistError) Is(target error) bool { return target == ErrPersist }
func (e *PersistError) Unwrap() error        { return e.Err }

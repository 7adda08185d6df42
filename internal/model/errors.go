package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrMalformedRecord is returned when a raw record can't be normalized into a task.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUpdateRejected is returned when the persistence side refuses a task update.
	ErrUpdateRejected = errors.New("update rejected")
	// ErrStaleResponse is returned when an update resolution belongs to an older task version.
	ErrStaleResponse = errors.New("stale response")
	// ErrGesturePending is returned when a gesture starts on a task whose previous
	// update has not been resolved yet.
	ErrGesturePending = errors.New("gesture pending")
	// ErrNoActiveGesture is returned when a gesture operation is called without an active gesture.
	ErrNoActiveGesture = errors.New("no active gesture")
)

package worker

import "errors"

var (
	ErrNotStarted     = errors.New("worker pool not started")
	ErrStopped        = errors.New("worker pool stopped")
	ErrAlreadyStarted = errors.New("worker pool already started")
	ErrQueueFull      = errors.New("worker pool queue full")
	ErrStopTimeout    = errors.New("timeout waiting for workers to stop")
)

package tracer

import "errors"

var (
	ErrNoWorkers = errors.New("tracer: no workers attached")
	ErrNoTree    = errors.New("tracer: no tree defined")
	ErrClosed    = errors.New("tracer: pool has been closed")
)

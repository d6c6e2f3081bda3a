package service

import (
	"context"
	"errors"

	"github.com/pkordes/name-service/internal/domain"
)

// Selection outcomes reported to a Recorder.
const (
	OutcomeOK      = "ok"
	OutcomeNoMatch = "no_match"
)

// Recorder receives one call per Generate. internal/metrics implements it.
type Recorder interface {
	ObserveSelection(outcome string)
}

// NameService binds a NamePool to a Source. It holds no mutable state of its
// own; whether it is safe for concurrent use depends on its Source.
type NameService struct {
	pool     domain.NamePool
	src      Source
	recorder Recorder
}

// NewNameService constructs a NameService. A nil src falls back to
// RuntimeSource; a nil recorder disables reporting.
func NewNameService(pool domain.NamePool, src Source, recorder Recorder) *NameService {
	if src == nil {
		src = RuntimeSource()
	}
	return &NameService{pool: pool, src: src, recorder: recorder}
}

// Generate returns one random name from the pool. prefix may be nil, in which
// case every name is a candidate. The context is accepted so NameService can
// stand in for the worker pool behind the same interface; selection itself
// never blocks.
func (s *NameService) Generate(_ context.Context, prefix *string) (string, error) {
	var p string
	if prefix != nil {
		p = *prefix
	}

	name, err := Select(s.pool.All(), p, s.src)
	if s.recorder != nil {
		switch {
		case err == nil:
			s.recorder.ObserveSelection(OutcomeOK)
		case errors.Is(err, domain.ErrNoMatch):
			s.recorder.ObserveSelection(OutcomeNoMatch)
		}
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

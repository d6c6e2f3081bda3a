package domain

import "errors"

// ErrNoMatch is returned by the selector when no name in the pool starts with
// the requested prefix. Handlers should map this to HTTP 404.
var ErrNoMatch = errors.New("no name matches the given prefix")

// ErrEmptyPool is returned at start-up when the configured pool source yields
// no names. The service refuses to start with an empty pool.
var ErrEmptyPool = errors.New("name pool is empty")

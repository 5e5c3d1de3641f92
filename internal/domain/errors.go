package domain

import "errors"

// ErrNotFound is returned by repository point lookups when no row matches.
// Callers that can degrade gracefully (e.g. the yesterday comparison) check
// for it with errors.Is; everything else propagates it wrapped.
var ErrNotFound = errors.New("record not found")

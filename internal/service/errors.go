package service

import "errors"

// ErrInvalidRequest marks caller mistakes (bad filter fields, unknown modes)
// so the HTTP layer can map them to 400 instead of 500.
var ErrInvalidRequest = errors.New("invalid request")

/*
Copyright 2026 Ardika Saputro.
Licensed under the Apache License, Version 2.0.
*/

package patchtree

import "errors"

// Path/range error sentinels, wrapped with fmt.Errorf("%w: ...", ...) at
// call sites so errors.Is keeps working up the stack (internal/mergeerrors
// buckets on these).
var (
	ErrEmptyPointer         = errors.New("empty pointer")
	ErrInvalidIndex         = errors.New("invalid array index")
	ErrInvalidString        = errors.New("invalid object key")
	ErrInvalidTarget        = errors.New("invalid patch target")
	ErrTryType              = errors.New("value has unexpected kind")
	ErrNotFoundTarget       = errors.New("target not found")
	ErrUnsupportedRangeKind = errors.New("unsupported range kind")
	ErrUnexpectedRange      = errors.New("range token not allowed here")
	ErrOutOfRange           = errors.New("range out of bounds")
	ErrWrongMatrix          = errors.New("value shape does not match target")
	ErrExpectedSeq          = errors.New("expected an array target")
)

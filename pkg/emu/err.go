package emu

import (
	"errors"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/translate"
)

var f = translate.From

var (
	// ErrNoImageLoaded reports a start request before any ROM image load.
	ErrNoImageLoaded = errors.New(f("no rom image loaded"))
)

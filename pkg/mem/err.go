package mem

import (
	"errors"

	"github.com/samsoftllc/samsoftn64emu-Codebase/pkg/translate"
)

var f = translate.From

var (
	// ErrImageTooSmall reports an empty ROM image.
	ErrImageTooSmall = errors.New(f("rom image too small"))
)

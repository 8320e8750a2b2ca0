package io

import (
	"errors"

	"github.com/ezrec/uchip8/translate"
)

var f = translate.From

var (
	// Rom errors
	ErrRomTooLarge = errors.New(f("rom too large"))
)

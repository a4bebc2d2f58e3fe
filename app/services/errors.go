package services

import (
	"errors"

	"taskboard/app/store"
)

var (
	ErrValidation       = errors.New("invalid input")
	ErrNotFound         = store.ErrNotFound
	ErrCapacityExceeded = store.ErrCapacityExceeded
)

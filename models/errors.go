package models

import "errors"

// Таксономия ошибок ядра. Хендлеры переводят их в HTTP статусы:
// ErrInvalidArgument -> 400, ErrNotFound -> 404, ErrStoreUnavailable -> 500.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrStoreUnavailable = errors.New("store unavailable")
)

package domain

import "errors"

var (
	ErrDuplicateComment  = errors.New("comment with this name and time already exists")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrProtocolViolation = errors.New("protocol violation")
)

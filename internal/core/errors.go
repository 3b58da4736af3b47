package core

import "errors"

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrEmptyName     = errors.New("empty name")
	ErrInvalidKind   = errors.New("invalid kind")
	ErrInvalidPeriod = errors.New("invalid billing period")
	ErrInvalidAnchor = errors.New("invalid recurrence anchor")
	ErrInvalidSource = errors.New("invalid payment source")
	ErrMonthLocked   = errors.New("month is read-only")
	ErrNotFound      = errors.New("not found")
	ErrNotAdhoc      = errors.New("occurrence is not ad-hoc")
)

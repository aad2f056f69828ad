package domain

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventTicketNotFound = errors.New("event ticket not found")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrTitleRequired       = errors.New("title required")
	ErrDescriptionRequired = errors.New("description required")
	ErrInvalidFormat       = errors.New("invalid event format")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUserIDRequired      = errors.New("user id required")
	ErrAlreadyLiked        = errors.New("already liked")
	ErrLikeNotFound        = errors.New("like not found")
	ErrEmptyPatch          = errors.New("no fields to update")
	ErrInvalidID           = errors.New("invalid id")
)

package usecase

import "errors"

var (
	ErrBookingNotSaved = errors.New("booking not saved")
	ErrInvalidBooking  = errors.New("invalid booking")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotBookingOwner = errors.New("booking belongs to another user")
	ErrAlreadyCanceled = errors.New("booking already canceled")
)

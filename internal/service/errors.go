package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrAlreadyActivated   = errors.New("code already activated")
	ErrInventoryExhausted = errors.New("qr code inventory exhausted")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpstream           = errors.New("upstream service failure")
)

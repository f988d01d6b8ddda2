package domain

import "errors"

var (
	ErrNotFound            = errors.New("account not found")
	ErrAlreadyExists       = errors.New("account already exists")
	ErrConflict            = errors.New("concurrent account update")
	ErrNoChanges           = errors.New("no changes")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

package store

import "errors"

var (
	ErrNotFound      = errors.New("greeting not found")
	ErrAlreadyExists = errors.New("greeting already exists")
)

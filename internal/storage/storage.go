package storage

import "errors"

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")

	ErrResumeExists = errors.New("resume already exists")

	ErrJobNotFound = errors.New("job not found")
)

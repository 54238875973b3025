package state

import "errors"

var (
	ErrDuplicateUser      = errors.New("user id already exists")
	ErrInvalidImport      = errors.New("invalid backup document")
	ErrInvalidCredentials = errors.New("invalid id or password")
	ErrAccountPending     = errors.New("account awaiting approval")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrNotTeacher         = errors.New("user is not a teacher")
	ErrNoBlobStore        = errors.New("no blob store configured")
)

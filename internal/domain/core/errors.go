package core

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrTargetNotFound   = errors.New("target not found")
)

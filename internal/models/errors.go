package models

import "errors"

// Rejection causes shared by catalog and coupon management. Callers wrap them
// with detail via fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicateName = errors.New("product name already exists")
	ErrDuplicateCode = errors.New("coupon code already exists")
	ErrNotFound      = errors.New("not found")
)

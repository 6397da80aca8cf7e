package salary

import "errors"

var (
	ErrSalaryNotFound  = errors.New("salary not found")
	ErrSalaryForbidden = errors.New("salary belongs to another user")
	ErrUserNotFound    = errors.New("user not found")
)

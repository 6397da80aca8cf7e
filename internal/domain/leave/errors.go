package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("Leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("Leave request already processed")
	ErrCannotProcessOwnRequest      = errors.New("Cannot approve or reject your own leave request")
	ErrInsufficientLeaveBalance     = errors.New("Insufficient annual leave balance")
)

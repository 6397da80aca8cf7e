package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)
	// UpdateStatus moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the row is no longer pending.
	UpdateStatus(ctx context.Context, id string, status LeaveRequestStatus, approvedBy string, rejectionReason *string) (LeaveRequest, error)
}

package leave

import "context"

type LeaveService interface {
	Create(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ListMy(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	List(ctx context.Context, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	// Balance returns the caller's remaining annual leave days.
	Balance(ctx context.Context) (LeaveBalanceResponse, error)
	Approve(ctx context.Context, id string) (LeaveRequestResponse, error)
	Reject(ctx context.Context, id string, req RejectLeaveRequestRequest) (LeaveRequestResponse, error)
}

package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5"
)

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	userRepo   user.UserRepository
	transactor database.Transactor
}

func NewLeaveService(leaveRequestRepository leave.LeaveRequestRepository, userRepository user.UserRepository, transactor database.Transactor) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		userRepo:               userRepository,
		transactor:             transactor,
	}
}

// Create implements leave.LeaveService.
func (l *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request := req.LeaveRequest(claims.UserID)
	if request.LeaveType == leave.LeaveTypeAnnual {
		requester, err := l.userRepo.GetByID(ctx, claims.UserID)
		if err != nil {
			return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get requester: %w", err)
		}
		if requester.AnnualLeaveBalance < request.TotalDays() {
			return leave.LeaveRequestResponse{}, leave.ErrInsufficientLeaveBalance
		}
	}

	created, err := l.LeaveRequestRepository.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request submitted", "leave_request_id", created.ID, "user_id", created.UserID, "leave_type", created.LeaveType)
	return leave.NewLeaveRequestResponse(created), nil
}

// ListMy implements leave.LeaveService.
func (l *LeaveServiceImpl) ListMy(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}
	filter.UserID = &claims.UserID
	return l.List(ctx, filter)
}

// List implements leave.LeaveService.
func (l *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	requests, total, err := l.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveRequestResponse(r))
	}

	return leave.ListLeaveRequestResponse{
		TotalCount:    total,
		Page:          filter.Page,
		Limit:         filter.Limit,
		TotalPages:    int(math.Ceil(float64(total) / float64(filter.Limit))),
		LeaveRequests: responses,
	}, nil
}

// Balance implements leave.LeaveService.
func (l *LeaveServiceImpl) Balance(ctx context.Context) (leave.LeaveBalanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}

	u, err := l.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalanceResponse{}, user.ErrUserNotFound
		}
		return leave.LeaveBalanceResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return leave.LeaveBalanceResponse{UserID: u.ID, AnnualLeaveBalance: u.AnnualLeaveBalance}, nil
}

// Approve implements leave.LeaveService.
func (l *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	return l.process(ctx, id, leave.LeaveRequestStatusApproved, nil)
}

// Reject implements leave.LeaveService.
func (l *LeaveServiceImpl) Reject(ctx context.Context, id string, req leave.RejectLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return l.process(ctx, id, leave.LeaveRequestStatusRejected, &req.RejectionReason)
}

// process moves a pending request to a terminal status. The repository
// re-checks the pending status in the UPDATE so concurrent reviewers cannot
// both succeed. Approving an annual request deducts its days from the
// requester's balance in the same transaction.
func (l *LeaveServiceImpl) process(ctx context.Context, id string, status leave.LeaveRequestStatus, reason *string) (leave.LeaveRequestResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if request.Status.IsTerminal() {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	if request.UserID == claims.UserID {
		return leave.LeaveRequestResponse{}, leave.ErrCannotProcessOwnRequest
	}

	var updated leave.LeaveRequest
	err = l.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = l.LeaveRequestRepository.UpdateStatus(ctx, id, status, claims.UserID, reason)
		if err != nil {
			if errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed) {
				return err
			}
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		if status != leave.LeaveRequestStatusApproved || updated.LeaveType != leave.LeaveTypeAnnual {
			return nil
		}
		if err := l.userRepo.DeductLeaveBalance(ctx, updated.UserID, updated.TotalDays()); err != nil {
			if errors.Is(err, user.ErrInsufficientLeave) {
				return leave.ErrInsufficientLeaveBalance
			}
			return fmt.Errorf("failed to deduct leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request processed", "leave_request_id", id, "status", status, "approved_by", claims.UserID)
	return leave.NewLeaveRequestResponse(updated), nil
}

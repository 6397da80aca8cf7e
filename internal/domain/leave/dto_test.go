package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	req := CreateLeaveRequestRequest{
		LeaveType: "annual",
		StartDate: "2024-03-04",
		EndDate:   "2024-03-06",
		Reason:    "family trip",
	}
	require.NoError(t, req.Validate())

	lr := req.LeaveRequest("user-1")
	assert.Equal(t, LeaveRequestStatusPending, lr.Status)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), lr.StartDate)
	assert.Equal(t, 3, lr.TotalDays())
}

func TestCreateLeaveRequestRequest_ValidateErrors(t *testing.T) {
	req := CreateLeaveRequestRequest{
		LeaveType: "vacation",
		StartDate: "2024-03-06",
		EndDate:   "2024-03-04",
	}
	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	m := verrs.ToMap()
	assert.Contains(t, m, "leave_type")
	assert.Contains(t, m, "end_date")
	assert.Contains(t, m, "reason")
	assert.NotContains(t, m, "start_date")
}

func TestLeaveRequestFilter_Validate(t *testing.T) {
	f := LeaveRequestFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)

	bad := "cancelled"
	f = LeaveRequestFilter{Status: &bad}
	assert.Error(t, f.Validate())
}

func TestLeaveRequestStatus_IsTerminal(t *testing.T) {
	assert.False(t, LeaveRequestStatusPending.IsTerminal())
	assert.True(t, LeaveRequestStatusApproved.IsTerminal())
	assert.True(t, LeaveRequestStatusRejected.IsTerminal())
}

package user

import (
	"context"
	"sort"
	"testing"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt/jwttest"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID = "11111111-1111-1111-1111-111111111111"
	aliceID = "22222222-2222-2222-2222-222222222222"
	bobID   = "33333333-3333-3333-3333-333333333333"
	teamID  = "44444444-4444-4444-4444-444444444444"
	shiftID = "55555555-5555-5555-5555-555555555555"
)

type fakeUserRepo struct {
	user.UserRepository
	users  map[string]user.User
	teams  map[string]bool
	shifts map[string]bool
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) List(context.Context) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUserRepo) ListByTeam(_ context.Context, team string) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.TeamID != nil && *u.TeamID == team {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(_ context.Context, req user.UpdateUserRequest) (user.User, error) {
	u, ok := f.users[req.ID]
	if !ok {
		return user.User{}, pgx.ErrNoRows
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	if req.TeamID != nil {
		if *req.TeamID == "" {
			u.TeamID = nil
		} else if !f.teams[*req.TeamID] {
			return user.User{}, user.ErrTeamNotFound
		} else {
			u.TeamID = req.TeamID
		}
	}
	if req.ShiftID != nil {
		if *req.ShiftID == "" {
			u.ShiftID = nil
		} else if !f.shifts[*req.ShiftID] {
			return user.User{}, user.ErrShiftNotFound
		} else {
			u.ShiftID = req.ShiftID
		}
	}
	if req.AnnualLeaveBalance != nil {
		u.AnnualLeaveBalance = *req.AnnualLeaveBalance
	}
	f.users[req.ID] = u
	return u, nil
}

func ptr[T any](v T) *T { return &v }

func newTestService() (*UserServiceImpl, *fakeUserRepo) {
	repo := &fakeUserRepo{
		users: map[string]user.User{
			adminID: {ID: adminID, Email: "admin@example.com", FirstName: "Ada", Role: user.RoleAdmin, AnnualLeaveBalance: 12},
			aliceID: {ID: aliceID, Email: "alice@example.com", FirstName: "Alice", Role: user.RoleEmployee, TeamID: ptr(teamID), AnnualLeaveBalance: 12},
			bobID:   {ID: bobID, Email: "bob@example.com", FirstName: "Bob", Role: user.RoleEmployee, AnnualLeaveBalance: 5},
		},
		teams:  map[string]bool{teamID: true},
		shifts: map[string]bool{shiftID: true},
	}
	return NewUserService(repo).(*UserServiceImpl), repo
}

func TestList_Filters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	all, err := svc.List(ctx, user.UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	members, err := svc.List(ctx, user.UserFilter{TeamID: ptr(teamID)})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, aliceID, members[0].ID)
	assert.Equal(t, 12, members[0].AnnualLeaveBalance)

	admins, err := svc.List(ctx, user.UserFilter{Role: ptr("admin")})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, adminID, admins[0].ID)

	_, err = svc.List(ctx, user.UserFilter{TeamID: ptr("not-a-uuid")})
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Get(context.Background(), bobID)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", resp.Email)

	_, err = svc.Get(context.Background(), "66666666-6666-6666-6666-666666666666")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUpdate_AssignsTeamShiftAndBalance(t *testing.T) {
	svc, repo := newTestService()
	ctx := jwttest.Admin(t, adminID)

	resp, err := svc.Update(ctx, user.UpdateUserRequest{
		ID:                 bobID,
		Role:               ptr("admin"),
		TeamID:             ptr(teamID),
		ShiftID:            ptr(shiftID),
		AnnualLeaveBalance: ptr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, teamID, *resp.TeamID)
	assert.Equal(t, shiftID, *resp.ShiftID)
	assert.Equal(t, 20, resp.AnnualLeaveBalance)

	resp, err = svc.Update(ctx, user.UpdateUserRequest{ID: bobID, TeamID: ptr(""), ShiftID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, resp.TeamID)
	assert.Nil(t, resp.ShiftID)
	assert.Nil(t, repo.users[bobID].TeamID)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newTestService()
	ctx := jwttest.Admin(t, adminID)

	_, err := svc.Update(ctx, user.UpdateUserRequest{ID: bobID, TeamID: ptr("77777777-7777-7777-7777-777777777777")})
	assert.ErrorIs(t, err, user.ErrTeamNotFound)

	_, err = svc.Update(ctx, user.UpdateUserRequest{ID: bobID, ShiftID: ptr("77777777-7777-7777-7777-777777777777")})
	assert.ErrorIs(t, err, user.ErrShiftNotFound)

	_, err = svc.Update(ctx, user.UpdateUserRequest{ID: "77777777-7777-7777-7777-777777777777", Role: ptr("admin")})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.Update(ctx, user.UpdateUserRequest{ID: adminID, Role: ptr("employee")})
	assert.ErrorIs(t, err, user.ErrCannotChangeOwnRole)

	// keeping the same role on yourself is fine
	_, err = svc.Update(ctx, user.UpdateUserRequest{ID: adminID, Role: ptr("admin"), AnnualLeaveBalance: ptr(3)})
	assert.NoError(t, err)

	_, err = svc.Update(context.Background(), user.UpdateUserRequest{ID: bobID, Role: ptr("admin")})
	assert.Error(t, err)
}

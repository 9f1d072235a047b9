package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/filter"
	"github.com/aibizeyes/admin-gateway/pkg/paging"
	"github.com/aibizeyes/admin-gateway/pkg/response"
)

type UserService struct {
	store    *store.Store
	upstream *upstream.Client
	syslog   *SystemLogger
}

func NewUserService(st *store.Store, up *upstream.Client, syslog *SystemLogger) *UserService {
	return &UserService{store: st, upstream: up, syslog: syslog}
}

type UserListRequest struct {
	paging.Request
	Search       string `form:"search"`
	Role         string `form:"role" binding:"omitempty,oneof=admin manager user viewer"`
	IsActive     string `form:"isActive" binding:"omitempty,oneof=true false"`
	Organization string `form:"organization"`
}

// UserSchema is exported so callers can filter user lists the same way.
var UserSchema = filter.Schema[models.User]{
	"role":         filter.Exactly(func(u models.User) string { return u.Role }),
	"isActive":     filter.Exactly(func(u models.User) string { return boolString(u.IsActive) }),
	"organization": filter.Substring(func(u models.User) string { return u.Organization }),
	"search": filter.AnySubstring(func(u models.User) []string {
		return []string{u.Username, u.Email, u.FullName}
	}),
}

func (s *UserService) List(ctx context.Context, req *UserListRequest) paging.PagedResult[models.User] {
	set := filter.Set{
		"search":       req.Search,
		"role":         req.Role,
		"isActive":     req.IsActive,
		"organization": req.Organization,
	}
	return listOrMock(ctx, s.upstream, "users.list", "/admin/users", set, req.Request, UserSchema, s.store.Users.List)
}

func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (models.User, error) {
	res := upstream.Send[models.User](ctx, s.upstream, "users.create", upstream.Request{
		Method: http.MethodPost, Path: "/admin/users", Body: req,
	})
	return res.OrElseTry(func() (models.User, error) {
		for _, u := range s.store.Users.List() {
			if strings.EqualFold(u.Username, req.Username) {
				return models.User{}, response.NewConflict("username already exists")
			}
		}

		user := models.User{
			Username:     req.Username,
			Email:        req.Email,
			FullName:     req.FullName,
			Role:         req.Role,
			Organization: req.Organization,
			IsActive:     true,
		}
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}

		created := s.store.Users.Create(user)
		s.syslog.LogInfo("user", "create", "User "+created.Username+" created", nil, "", "", nil)
		return created, nil
	})
}

func (s *UserService) Update(ctx context.Context, id int64, patch *models.UserPatch) (models.User, error) {
	res := upstream.Send[models.User](ctx, s.upstream, "users.update", upstream.Request{
		Method: http.MethodPut, Path: idPath("/admin/users", id), Body: patch,
	})
	return res.OrElseTry(func() (models.User, error) {
		updated, err := s.store.Users.Update(id, func(u *models.User) { patch.Apply(u) })
		if err != nil {
			return models.User{}, notFound(err, "user")
		}
		s.syslog.LogInfo("user", "update", "User "+updated.Username+" updated", nil, "", "", patch)
		return updated, nil
	})
}

// Delete removes a user. Deleting an id that does not exist succeeds
// without effect.
func (s *UserService) Delete(ctx context.Context, id int64) {
	res := upstream.Send[struct{}](ctx, s.upstream, "users.delete", upstream.Request{
		Method: http.MethodDelete, Path: idPath("/admin/users", id),
	})
	res.OrElse(func() struct{} {
		if s.store.Users.Delete(id) {
			s.syslog.LogInfo("user", "delete", "User deleted", nil, "", "", map[string]int64{"id": id})
		}
		return struct{}{}
	})
}

// FindByUsername looks the user up in the mock collection.
func (s *UserService) FindByUsername(username string) (models.User, bool) {
	for _, u := range s.store.Users.List() {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

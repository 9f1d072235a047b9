package services

import (
	"context"
	"net/http"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/internal/utils"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/aibizeyes/admin-gateway/pkg/response"
)

// AuthService issues console bearer tokens. The core API authenticates
// when reachable; otherwise only the bootstrap admin from config can sign in.
type AuthService struct {
	store     *store.Store
	upstream  *upstream.Client
	users     *UserService
	syslog    *SystemLogger
	jwtConfig config.JWTConfig
	adminUser string
	adminHash string
}

func NewAuthService(st *store.Store, up *upstream.Client, users *UserService, syslog *SystemLogger, jwtCfg config.JWTConfig, authCfg config.AuthConfig) (*AuthService, error) {
	s := &AuthService{
		store:     st,
		upstream:  up,
		users:     users,
		syslog:    syslog,
		jwtConfig: jwtCfg,
		adminUser: authCfg.AdminUsername,
	}
	if authCfg.AdminPassword != "" {
		hash, err := utils.HashPassword(authCfg.AdminPassword)
		if err != nil {
			return nil, err
		}
		s.adminHash = hash
	}
	return s, nil
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string      `json:"token"`
	ExpireAt time.Time   `json:"expireAt"`
	User     models.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest, clientIP, userAgent string) (*LoginResponse, error) {
	res := upstream.Send[LoginResponse](ctx, s.upstream, "auth.login", upstream.Request{
		Method: http.MethodPost, Path: "/auth/login", Body: req,
	})
	if res.OK() {
		resp, err := s.exchange(res.Value)
		if err != nil {
			return nil, err
		}
		s.syslog.LogInfo("auth", "login", "User "+resp.User.Username+" logged in via core API", &resp.User.ID, clientIP, userAgent, nil)
		return &resp, nil
	}
	resp, err := res.OrElseTry(func() (LoginResponse, error) {
		return s.localLogin(req, clientIP, userAgent)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// exchange wraps the core API's login reply in a gateway token, so the
// role checks run locally and the core API token is still forwarded.
func (s *AuthService) exchange(reply LoginResponse) (LoginResponse, error) {
	if reply.Token == "" {
		return LoginResponse{}, response.NewUnauthorized("core API returned no token")
	}
	user := reply.User
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	token, err := utils.GenerateExchangeToken(user.ID, user.Username, user.Role, reply.Token, s.jwtConfig.ExpireHour)
	if err != nil {
		logger.Error().Err(err).Msg("failed to sign token")
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
		User:     user,
	}, nil
}

func (s *AuthService) localLogin(req *LoginRequest, clientIP, userAgent string) (LoginResponse, error) {
	if s.adminHash == "" || req.Username != s.adminUser || !utils.CheckPassword(req.Password, s.adminHash) {
		s.syslog.LogWarning("auth", "login_failed", "Failed login for "+req.Username, nil, clientIP, userAgent, nil)
		return LoginResponse{}, response.NewUnauthorized("invalid username or password")
	}

	user := s.bootstrapAdmin()
	if !user.IsActive {
		return LoginResponse{}, response.NewForbidden("user is disabled")
	}

	now := s.store.Now()
	if user.ID != 0 {
		if updated, err := s.store.Users.Update(user.ID, func(u *models.User) { u.LastLoginAt = &now }); err == nil {
			user = updated
		}
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, s.jwtConfig.ExpireHour)
	if err != nil {
		logger.Error().Err(err).Msg("failed to sign token")
		return LoginResponse{}, err
	}

	userID := user.ID
	s.syslog.LogInfo("auth", "login", "User "+user.Username+" logged in", &userID, clientIP, userAgent, nil)
	return LoginResponse{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
		User:     user,
	}, nil
}

// bootstrapAdmin is the store record of the configured admin, or a
// synthetic one when the store has no user by that name.
func (s *AuthService) bootstrapAdmin() models.User {
	if u, ok := s.users.FindByUsername(s.adminUser); ok {
		return u
	}
	return models.User{
		Username: s.adminUser,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
}

// Me resolves the operator behind claims.
func (s *AuthService) Me(ctx context.Context, claims *utils.Claims) (models.User, error) {
	res := upstream.Fetch[models.User](ctx, s.upstream, "auth.me", "/auth/me", nil)
	return res.OrElseTry(func() (models.User, error) {
		if claims.UserID != 0 {
			if u, err := s.store.Users.Get(claims.UserID); err == nil {
				return u, nil
			}
		}
		if u, ok := s.users.FindByUsername(claims.Username); ok {
			return u, nil
		}
		if claims.Username == s.adminUser {
			return s.bootstrapAdmin(), nil
		}
		return models.User{}, response.NewNotFound("user not found")
	})
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jamescw/unicef-assessment-tool/internal/auth"
	"github.com/jamescw/unicef-assessment-tool/internal/errors"
	"github.com/jamescw/unicef-assessment-tool/internal/logger"
	"github.com/jamescw/unicef-assessment-tool/internal/models"
	"github.com/jamescw/unicef-assessment-tool/internal/repository"
)

// authService implements AuthService
type authService struct {
	repos      *repository.Repositories
	jwtService *auth.JWTService
	hash       func(string) (string, error)
	logger     logger.Logger
}

// NewAuthService creates a new auth service implementation
func NewAuthService(repos *repository.Repositories, jwtSecret string, log logger.Logger) AuthService {
	return &authService{
		repos:      repos,
		jwtService: auth.NewJWTService(jwtSecret),
		hash:       auth.HashPassword,
		logger:     log,
	}
}

// Register creates a respondent account. Admin accounts are created with CreateUser.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Role != "" && req.Role != models.RoleRespondent {
		return nil, errors.Forbidden("only respondent accounts can be registered", nil)
	}
	r := *req
	r.Role = models.RoleRespondent
	return s.CreateUser(ctx, &r)
}

// CreateUser creates a user with any valid role
func (s *authService) CreateUser(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.InvalidInput("a valid email is required", nil)
	}
	role := req.Role
	if role == "" {
		role = models.RoleRespondent
	}
	if !role.Valid() {
		return nil, errors.InvalidInput("invalid role", nil).WithDetails(string(role))
	}

	hashed, err := s.hash(req.Password)
	if err != nil {
		return nil, errors.InvalidInput(err.Error(), err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashed,
		Role:         string(role),
	}

	// Lookup and insert share a transaction so a concurrent register hits the conflict
	err = s.repos.Tx.WithTransaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.User.GetByEmail(ctx, email); err == nil {
			return errors.Conflict("user with this email already exists", nil)
		} else if !errors.IsNotFound(err) {
			return errors.DatabaseError("failed to look up user", err).WithOperation("CreateUser")
		}
		return tx.User.Create(ctx, user)
	})
	if err != nil {
		if errors.IsConflict(err) {
			return nil, errors.Conflict("user with this email already exists", err)
		}
		s.logger.Error("Failed to create user", err, "email", email)
		return nil, errors.DatabaseError("failed to create user", err).WithOperation("CreateUser")
	}

	s.logger.Info("Created user", "user_id", user.ID.String(), "role", user.Role)
	user.PasswordHash = ""
	return user, nil
}

// Login authenticates a user and returns a token
func (s *authService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	user, err := s.repos.User.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.IsNotFound(err) {
			s.logger.Error("Failed to look up user", err)
		}
		return nil, errors.Unauthorized("invalid credentials", nil)
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, errors.Unauthorized("invalid credentials", nil)
	}
	return s.issueTokens(user)
}

// ValidateToken validates an access token and returns the user
func (s *authService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid token", err)
	}

	user, err := s.repos.User.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("user not found", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// RefreshToken issues new tokens from a refresh token
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token", err)
	}

	user, err := s.repos.User.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("user not found", err)
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *models.User) (*models.LoginResponse, error) {
	claims := auth.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}

	token, expiresAt, err := s.jwtService.GenerateToken(claims)
	if err != nil {
		return nil, errors.InternalError("failed to generate token", err)
	}
	refresh, _, err := s.jwtService.GenerateRefreshToken(claims)
	if err != nil {
		return nil, errors.InternalError("failed to generate refresh token", err)
	}

	return &models.LoginResponse{
		Token:        token,
		RefreshToken: refresh,
		User: models.User{
			ID:        user.ID,
			Email:     user.Email,
			Role:      user.Role,
			CreatedAt: user.CreatedAt,
			UpdatedAt: user.UpdatedAt,
		},
		ExpiresAt: expiresAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

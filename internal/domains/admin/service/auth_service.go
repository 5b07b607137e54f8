package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"celebstyle-backend/internal/domains/admin/model"
	"celebstyle-backend/internal/domains/admin/repository"
	"celebstyle-backend/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TokenIssuer là phần của jwt.Manager mà service cần
type TokenIssuer interface {
	GenerateAccessToken(adminID, email, role string) (string, time.Time, error)
}

type Service interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	Me(ctx context.Context, id uuid.UUID) (*model.AdminUser, error)

	// EnsureSeedAdmin tạo admin đầu tiên khi bảng admin_users còn trống. created=false nếu đã có admin.
	EnsureSeedAdmin(ctx context.Context, req model.SeedRequest) (created bool, err error)
}

type authService struct {
	repo   repository.Repository
	tokens TokenIssuer
	now    func() time.Time

	// hash giả để so sánh khi email không tồn tại (thời gian phản hồi như nhau)
	dummy *model.AdminUser
}

func NewService(repo repository.Repository, tokens TokenIssuer) Service {
	dummyHash, _ := model.HashPassword(uuid.NewString())
	return &authService{
		repo:   repo,
		tokens: tokens,
		now:    func() time.Time { return time.Now().UTC() },
		dummy:  &model.AdminUser{PasswordHash: dummyHash},
	}
}

// ============================================================
// LOGIN: validate → find by email → bcrypt compare → JWT → last_login
// ============================================================
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}

	admin, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, err
		}
		s.dummy.CheckPassword(req.Password)
		return nil, model.ErrInvalidCredentials
	}

	if !admin.CheckPassword(req.Password) {
		log.Warn().Str("admin_id", admin.ID.String()).Msg("Admin login failed: wrong password")
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(admin.ID.String(), admin.Email, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		log.Warn().Err(err).Str("admin_id", admin.ID.String()).Msg("Failed to update last_login")
	} else {
		admin.LastLogin = &now
	}

	log.Info().Str("admin_id", admin.ID.String()).Str("role", admin.Role).Msg("Admin logged in")
	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Admin:       admin,
	}, nil
}

func (s *authService) Me(ctx context.Context, id uuid.UUID) (*model.AdminUser, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authService) EnsureSeedAdmin(ctx context.Context, req model.SeedRequest) (bool, error) {
	req.Email = model.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return false, apperror.FromValidation(err)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := model.HashPassword(req.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Administrator"
	}

	admin := &model.AdminUser{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         name,
		Role:         model.RoleAdmin,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return false, err
	}

	log.Info().Str("admin_id", admin.ID.String()).Str("email", admin.Email).Msg("Seeded first admin user")
	return true, nil
}

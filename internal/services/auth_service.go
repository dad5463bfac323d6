package services

import (
	"context"
	"mime/multipart"
	"strings"
	"time"

	"hrflow_backend/internal/auth"
	"hrflow_backend/internal/config"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/storage"
	"hrflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, db *gorm.DB, refreshToken string) error
	Me(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateMeRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error
	UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UserResponse, error)
	// SeedFirstHeadHR создает первого head_hr, если в системе нет ни одного. true - пользователь создан.
	SeedFirstHeadHR(ctx context.Context, db *gorm.DB, name, email, password string) (bool, error)
}

type authService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	tokens           *auth.TokenManager
	refreshTTL       time.Duration
	uploader         *uploader
	avatarPolicy     config.UploadPolicy
	storage          storage.Storage
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	tokens *auth.TokenManager,
	refreshTTL time.Duration,
	store storage.Storage,
	avatarPolicy config.UploadPolicy,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		tokens:           tokens,
		refreshTTL:       refreshTTL,
		uploader:         newUploader(store),
		avatarPolicy:     avatarPolicy,
		storage:          store,
	}
}

// Login - аутентификация сотрудника
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	resp, err := s.issueTokens(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID, "role", user.Role)
	return resp, nil
}

// Refresh - ротация refresh-токена: старый удаляется, выдается новая пара
func (s *authService) Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	stored, err := s.refreshTokenRepo.FindByToken(tx, refreshToken)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.refreshTokenRepo.DeleteByToken(tx, refreshToken); err != nil {
		return nil, mapRepoError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		// удаление просроченного токена фиксируем, но доступ не выдаем
		if err := tx.Commit().Error; err != nil {
			return nil, apperrors.InternalError(err)
		}
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(tx, stored.UserID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	if !user.IsActive {
		return nil, apperrors.ErrUserInactive
	}

	resp, err := s.issueTokens(ctx, tx, user)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, db *gorm.DB, refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByToken(db, refreshToken); err != nil {
		// повторный logout не ошибка
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := buildUserResponse(ctx, s.storage, user)
	return &resp, nil
}

func (s *authService) UpdateMe(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateMeRequest) (*dto.UserResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if err := normalizeDepartment(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(tx, user); err != nil {
		return nil, mapRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := buildUserResponse(ctx, s.storage, user)
	return &resp, nil
}

// ChangePassword - смена пароля; все refresh-токены отзываются
func (s *authService) ChangePassword(ctx context.Context, db *gorm.DB, userID string, req *dto.ChangePasswordRequest) error {
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return mapRepoError(err)
	}
	if !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdatePassword(tx, userID, hash); err != nil {
		return mapRepoError(err)
	}
	if err := s.refreshTokenRepo.DeleteByUserID(tx, userID); err != nil {
		return apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "Password changed", "user_id", userID)
	return nil
}

func (s *authService) UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	stored, err := s.uploader.Store(ctx, file, s.avatarPolicy, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateAvatar(db, userID, &stored.Key); err != nil {
		s.uploader.Discard(ctx, stored.Key)
		return nil, mapRepoError(err)
	}

	// старый аватар больше не нужен
	if user.AvatarObjectKey != nil && *user.AvatarObjectKey != "" {
		s.uploader.Discard(ctx, *user.AvatarObjectKey)
	}

	user.AvatarObjectKey = &stored.Key
	resp := buildUserResponse(ctx, s.storage, user)
	return &resp, nil
}

func (s *authService) SeedFirstHeadHR(ctx context.Context, db *gorm.DB, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	count, err := s.userRepo.CountByRole(db, models.UserRoleHeadHR)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	if count > 0 {
		return false, nil
	}

	if err := auth.ValidatePassword(password); err != nil {
		return false, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	if name == "" {
		name = "Head HR"
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleHeadHR,
		IsActive:     true,
	}
	if err := s.userRepo.Create(db, user); err != nil {
		return false, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "First head_hr account created", "email", user.Email)
	return true, nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

func (s *authService) issueTokens(ctx context.Context, db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refresh, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.refreshTokenRepo.Create(db, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: utcNow().Add(s.refreshTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		User:         buildUserResponse(ctx, s.storage, user),
	}, nil
}

package services

import (
	"context"
	"strings"
	"time"

	"hrflow_backend/internal/auth"
	"hrflow_backend/internal/logger"
	"hrflow_backend/internal/models"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/internal/services/dto"
	"hrflow_backend/internal/storage"
	"hrflow_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// UserService - управление сотрудниками (head_hr)
type UserService interface {
	List(ctx context.Context, db *gorm.DB, filter dto.UserFilter, page, pageSize int) (*dto.UserListResponse, error)
	Get(ctx context.Context, db *gorm.DB, id string) (*dto.UserResponse, error)
	Create(ctx context.Context, db *gorm.DB, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, db *gorm.DB, actor Actor, id string) error
}

type userService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	storage          storage.Storage
}

func NewUserService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	store storage.Storage,
) UserService {
	return &userService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		storage:          store,
	}
}

func (s *userService) List(ctx context.Context, db *gorm.DB, filter dto.UserFilter, page, pageSize int) (*dto.UserListResponse, error) {
	users, total, err := s.userRepo.FindWithFilter(db, repositories.UserFilter{
		Role:     filter.Role,
		Search:   filter.Search,
		IsActive: filter.IsActive,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserListResponse{
		Users:      make([]dto.UserResponse, 0, len(users)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: dto.TotalPages(total, pageSize),
	}
	for i := range users {
		resp.Users = append(resp.Users, buildUserResponse(ctx, s.storage, &users[i]))
	}
	return resp, nil
}

func (s *userService) Get(ctx context.Context, db *gorm.DB, id string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	resp := buildUserResponse(ctx, s.storage, user)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, db *gorm.DB, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !req.Role.Valid() {
		return nil, apperrors.ErrInvalidUserRole
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Department:   req.Department,
		IsActive:     true,
	}
	if err := normalizeDepartment(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(db, user); err != nil {
		return nil, mapRepoError(err)
	}

	logger.CtxInfo(ctx, "User created", "new_user_id", user.ID, "role", user.Role)
	resp := buildUserResponse(ctx, s.storage, user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, db *gorm.DB, actor Actor, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}

	// Себе нельзя менять роль и отключать учетную запись
	if actor.UserID == id {
		if req.Role != nil && *req.Role != user.Role {
			return nil, apperrors.ErrCannotModifySelf
		}
		if req.IsActive != nil && !*req.IsActive {
			return nil, apperrors.ErrCannotModifySelf
		}
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if !req.Role.Valid() {
			return nil, apperrors.ErrInvalidUserRole
		}
		user.Role = *req.Role
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if err := normalizeDepartment(user); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(tx, user); err != nil {
		return nil, mapRepoError(err)
	}

	if req.Password != nil {
		if err := auth.ValidatePassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if err := s.userRepo.UpdatePassword(tx, id, hash); err != nil {
			return nil, mapRepoError(err)
		}
	}

	// отключенный или сменивший пароль пользователь должен перелогиниться
	if req.Password != nil || !user.IsActive {
		if err := s.refreshTokenRepo.DeleteByUserID(tx, id); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := buildUserResponse(ctx, s.storage, user)
	return &resp, nil
}

// Delete - вакансии пользователя остаются, requested_by_id обнуляется
func (s *userService) Delete(ctx context.Context, db *gorm.DB, actor Actor, id string) error {
	if actor.UserID == id {
		return apperrors.ErrCannotModifySelf
	}

	tx := db.Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	user, err := s.userRepo.FindByID(tx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if err := s.userRepo.Delete(tx, id); err != nil {
		return mapRepoError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	if user.AvatarObjectKey != nil && *user.AvatarObjectKey != "" {
		newUploader(s.storage).Discard(ctx, *user.AvatarObjectKey)
	}

	logger.CtxInfo(ctx, "User deleted", "deleted_user_id", id, "role", user.Role)
	return nil
}

// ============================================
// ВСПОМОГАТЕЛЬНЫЕ МЕТОДЫ
// ============================================

// normalizeDepartment - отдел обязателен ровно для менеджера, у остальных очищается
func normalizeDepartment(user *models.User) error {
	if user.Role != models.UserRoleManager {
		user.Department = nil
		return nil
	}
	if user.Department == nil || strings.TrimSpace(*user.Department) == "" {
		return apperrors.ErrDepartmentRequired
	}
	dep := strings.TrimSpace(*user.Department)
	user.Department = &dep
	return nil
}

func buildUserResponse(ctx context.Context, store storage.Storage, user *models.User) dto.UserResponse {
	resp := dto.NewUserResponse(user)
	if user.AvatarObjectKey != nil && *user.AvatarObjectKey != "" && store != nil {
		url, err := store.GetSignedURL(ctx, *user.AvatarObjectKey, time.Hour)
		if err != nil {
			logger.CtxWarn(ctx, "Failed to sign avatar url", "user_id", user.ID, "error", err)
		} else {
			resp.AvatarURL = url
		}
	}
	return resp
}

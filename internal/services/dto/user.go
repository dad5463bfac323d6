package dto

import (
	"time"

	"hrflow_backend/internal/models"
)

// UserResponse - сотрудник HR-системы (без хеша пароля)
type UserResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	Department *string         `json:"department"`
	AvatarURL  string          `json:"avatar_url,omitempty"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// UserSummary - короткая ссылка на пользователя внутри других ответов
type UserSummary struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	Department *string         `json:"department,omitempty"`
}

type CreateUserRequest struct {
	Name       string          `json:"name" validate:"required,min=2,max=255"`
	Email      string          `json:"email" validate:"required,email,max=255"`
	Password   string          `json:"password" validate:"required,min=8,max=128"`
	Role       models.UserRole `json:"role" validate:"required,is-user-role"`
	Department *string         `json:"department" validate:"omitempty,max=255"`
}

type UpdateUserRequest struct {
	Name       *string          `json:"name" validate:"omitempty,min=2,max=255"`
	Email      *string          `json:"email" validate:"omitempty,email,max=255"`
	Password   *string          `json:"password" validate:"omitempty,min=8,max=128"`
	Role       *models.UserRole `json:"role" validate:"omitempty,is-user-role"`
	Department *string          `json:"department" validate:"omitempty,max=255"`
	IsActive   *bool            `json:"is_active"`
}

type UserFilter struct {
	Role     models.UserRole `form:"role" json:"role" validate:"omitempty,is-user-role"`
	Search   string          `form:"search" json:"search" validate:"omitempty,max=100"`
	IsActive *bool           `form:"is_active" json:"is_active"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
	}
}

// TotalPages - число страниц для total записей
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages == 0 {
		return 1
	}
	return pages
}

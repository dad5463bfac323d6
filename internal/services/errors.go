package services

import (
	"errors"

	"hrflow_backend/database"
	"hrflow_backend/internal/repositories"
	"hrflow_backend/pkg/apperrors"
)

// mapRepoError переводит ошибки репозиториев в AppError
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrNotFound(err).WithMessage("User not found")
	case errors.Is(err, repositories.ErrPositionNotFound):
		return apperrors.ErrNotFound(err).WithMessage("Job position not found")
	case errors.Is(err, repositories.ErrApplicationNotFound):
		return apperrors.ErrNotFound(err).WithMessage("Application not found")
	case errors.Is(err, repositories.ErrScheduleNotFound):
		return apperrors.ErrNotFound(err).WithMessage("Schedule not found")
	case errors.Is(err, repositories.ErrRefreshTokenNotFound):
		return apperrors.ErrInvalidToken
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrPositionNameTaken):
		return apperrors.ErrPositionNameTaken
	case errors.Is(err, repositories.ErrStatusChanged):
		return apperrors.ErrStaleStatus
	case database.IsUniqueViolation(err):
		return apperrors.ErrAlreadyExists(err)
	}
	return apperrors.InternalError(err)
}

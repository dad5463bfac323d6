package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (для оборачивания ошибок репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Фабричные ФУНКЦИИ (для новых ошибок)
// =========================================================================

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (400)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// --- Auth & Users ---

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrTokenExpired = New(
	CodeTokenExpired,
	"auth",
	"Token expired",
	http.StatusUnauthorized,
)

var ErrUserInactive = New(
	CodeForbidden,
	"auth",
	"Your account has been deactivated",
	http.StatusForbidden,
)

// ErrDepartmentRequired - у менеджера обязательно должен быть отдел
var ErrDepartmentRequired = New(
	CodeValidationFailed,
	"user",
	"Department is required for managers",
	http.StatusBadRequest,
)

// --- Uploads & Files ---

// ErrTooManyRequests - сработал лимит публичной формы
var ErrTooManyRequests = New(
	CodeLimitExceeded,
	"rate_limit",
	"Too many requests, try again later",
	http.StatusTooManyRequests,
)

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Job positions ---

var ErrPositionNameTaken = New(
	CodeAlreadyExists,
	"job_position",
	"Job position with this name already exists",
	http.StatusConflict,
)

// ErrPositionLocked - позиция закрыта или отклонена, редактирование запрещено
var ErrPositionLocked = New(
	CodeInvalidStatus,
	"job_position",
	"Job position can no longer be edited",
	http.StatusConflict,
)

var ErrPositionNotOpen = New(
	CodeInvalidStatus,
	"job_position",
	"Job position is not accepting applications",
	http.StatusConflict,
)

// --- Workflow ---

// ErrInvalidTransition - переход статуса не предусмотрен таблицей переходов
var ErrInvalidTransition = New(
	CodeInvalidTransition,
	"workflow",
	"Status transition is not allowed",
	http.StatusConflict,
)

// ErrTransitionForbidden - переход есть, но не для роли вызывающего
var ErrTransitionForbidden = New(
	CodeForbidden,
	"workflow",
	"Your role cannot perform this status transition",
	http.StatusForbidden,
)

// ErrStaleStatus - кто-то успел изменить статус раньше
var ErrStaleStatus = New(
	CodeConflict,
	"workflow",
	"Application status was changed concurrently, reload and retry",
	http.StatusConflict,
)

var ErrFinalInterviewNotScheduled = New(
	CodeInvalidOperation,
	"workflow",
	"Final interview must be scheduled before a final decision",
	http.StatusConflict,
)

var ErrScheduledTimeRequired = New(
	CodeValidationFailed,
	"workflow",
	"interview_notes.scheduled_time is required to schedule an interview",
	http.StatusBadRequest,
)

// --- Schedules ---

var ErrScheduleConflict = New(
	CodeScheduleConflict,
	"schedule",
	"The selected time slot overlaps an existing event",
	http.StatusConflict,
)

var ErrInvalidTimeRange = New(
	CodeValidationFailed,
	"schedule",
	"Start must be before end",
	http.StatusBadRequest,
)

var ErrScheduleManagedByApplication = New(
	CodeInvalidOperation,
	"schedule",
	"Interview events are managed through the application workflow",
	http.StatusConflict,
)

// --- Notifications & integrations ---

// ErrInviteDeliveryFailed - приглашение на интервью не отправлено, операция откатывается
var ErrInviteDeliveryFailed = New(
	CodeExternalServiceError,
	"email",
	"Failed to deliver interview invitation",
	http.StatusBadGateway,
)

var ErrWorkflowEngineFailed = New(
	CodeExternalServiceError,
	"workflow_engine",
	"External workflow engine rejected the request",
	http.StatusBadGateway,
)

var ErrWorkflowEngineDisabled = New(
	CodeInvalidOperation,
	"workflow_engine",
	"Workflow engine webhook is not configured",
	http.StatusServiceUnavailable,
)

var ErrInvalidScoringPayload = New(
	CodeValidationFailed,
	"scoring",
	"Scoring payload does not match the expected schema",
	http.StatusUnprocessableEntity,
)

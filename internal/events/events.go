// Package events - внутрипроцессная шина событий (asaskevich/EventBus).
// Обработчики синхронные: публикация идет после коммита транзакции.
package events

import (
	"time"

	"hrflow_backend/internal/models"

	"github.com/asaskevich/EventBus"
)

const (
	ApplicationStatusChangedTopic = "application:status_changed"
	ApplicationSubmittedTopic     = "application:submitted"
	PositionStatusChangedTopic    = "position:status_changed"
)

type ApplicationStatusChanged struct {
	ApplicationID string
	PositionID    string
	From          models.ApplicationStatus
	To            models.ApplicationStatus
	ActorRole     models.UserRole
	At            time.Time
}

type ApplicationSubmitted struct {
	ApplicationID string
	PositionID    string
	At            time.Time
}

type PositionStatusChanged struct {
	PositionID string
	From       models.PositionStatus
	To         models.PositionStatus
	ActorRole  models.UserRole
	At         time.Time
}

// Bus - то, что нужно сервисам от шины
type Bus interface {
	Publish(topic string, args ...interface{})
	Subscribe(topic string, fn interface{}) error
}

func NewBus() EventBus.Bus {
	return EventBus.New()
}

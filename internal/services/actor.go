package services

import (
	"time"

	"hrflow_backend/internal/events"
	"hrflow_backend/internal/models"
)

// Actor - кто выполняет операцию. Роль берется из JWT, для воркеров - RoleSystem.
type Actor struct {
	UserID string
	Role   models.UserRole
}

// SystemActor - фоновые задачи и внутренний скоринг
var SystemActor = Actor{Role: models.RoleSystem}

func (a Actor) IsManager() bool {
	return a.Role == models.UserRoleManager
}

func (a Actor) IsHR() bool {
	return a.Role == models.UserRoleHeadHR || a.Role == models.UserRoleStaffHR
}

// idPtr - nil для системного актора, чтобы не писать пустой FK
func (a Actor) idPtr() *string {
	if a.UserID == "" {
		return nil
	}
	id := a.UserID
	return &id
}

// publish - события уходят только после коммита; без шины просто пропускаем
func publish(bus events.Bus, topic string, event interface{}) {
	if bus == nil {
		return
	}
	bus.Publish(topic, event)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

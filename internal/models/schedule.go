package models

import "time"

// Schedule - событие календаря HR: интервью, онбординг или ручная запись (праздник и т.п.)
type Schedule struct {
	BaseModel
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	StartDate   time.Time    `gorm:"not null;index" json:"start_date"`
	EndDate     time.Time    `gorm:"not null;index" json:"end_date"`
	Description string       `gorm:"type:text" json:"description"`
	Kind        ScheduleKind `gorm:"type:varchar(30);not null;default:'MANUAL'" json:"kind"`

	ApplicationID *string        `gorm:"type:varchar(36);index" json:"application_id"`
	Application   *CvApplication `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	CreatedByID *string `gorm:"type:varchar(36)" json:"created_by_id,omitempty"`
}

// Overlaps - полуинтервалы [start, end) пересекаются
func (s *Schedule) Overlaps(start, end time.Time) bool {
	return s.StartDate.Before(end) && start.Before(s.EndDate)
}

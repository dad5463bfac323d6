package models

import "time"

// JobPosition - заявка на вакансию (requisition) и сама вакансия после публикации
type JobPosition struct {
	BaseModel
	Name                  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Location              string         `gorm:"type:varchar(255)" json:"location"`
	RegistrationStartDate *time.Time     `json:"registration_start_date,omitempty"`
	RegistrationEndDate   *time.Time     `gorm:"index" json:"registration_end_date,omitempty"`
	SpecificRequirements  string         `gorm:"type:text" json:"specific_requirements"`
	AvailableSlots        int            `gorm:"default:1" json:"available_slots"`
	Status                PositionStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Announcement          string         `gorm:"type:text" json:"announcement"`
	RejectionReason       string         `gorm:"type:text" json:"rejection_reason,omitempty"`
	IsArchived            bool           `gorm:"default:false;index" json:"is_archived"`

	RequestedByID *string `gorm:"type:varchar(36);index" json:"requested_by_id"`
	RequestedBy   *User   `gorm:"foreignKey:RequestedByID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"requested_by,omitempty"`
}

// AcceptsApplications - позиция открыта и окно регистрации (если задано) включает now
func (p *JobPosition) AcceptsApplications(now time.Time) bool {
	if p.Status != PositionStatusOpen || p.IsArchived {
		return false
	}
	if p.RegistrationStartDate != nil && now.Before(*p.RegistrationStartDate) {
		return false
	}
	if p.RegistrationEndDate != nil && now.After(*p.RegistrationEndDate) {
		return false
	}
	return true
}

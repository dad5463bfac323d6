package models

import (
	"time"

	"gorm.io/datatypes"
)

type CvApplication struct {
	BaseModel
	FullName        string            `gorm:"type:varchar(255);not null" json:"full_name"`
	Email           string            `gorm:"type:varchar(255);not null;index" json:"email"`
	CvFileName      string            `gorm:"type:varchar(255)" json:"cv_file_name"`
	CvFileObjectKey string            `gorm:"type:varchar(512)" json:"-"`
	Qualification   string            `gorm:"type:text" json:"qualification"`
	AgreeTerms      bool              `gorm:"not null;default:false" json:"agree_terms"`
	Status          ApplicationStatus `gorm:"type:varchar(40);not null;default:'SUBMITTED';index" json:"status"`

	// Результаты AI-скоринга
	Score                 *float64       `json:"score"`
	Justification         string         `gorm:"type:text" json:"justification"`
	SimilarityScore       *float64       `json:"similarity_score"`
	PassedHardGate        *bool          `json:"passed_hard_gate"`
	QualitativeAssessment datatypes.JSON `json:"qualitative_assessment,omitempty"`
	CvData                datatypes.JSON `json:"cv_data,omitempty"`
	RequirementData       datatypes.JSON `json:"requirement_data,omitempty"`
	ScoredAt              *time.Time     `json:"scored_at,omitempty"`

	InterviewNotes datatypes.JSONType[InterviewNotes] `json:"interview_notes"`
	IsArchived     bool                               `gorm:"default:false;index" json:"is_archived"`

	AppliedPositionID *string      `gorm:"type:varchar(36);index" json:"applied_position_id"`
	AppliedPosition   *JobPosition `gorm:"foreignKey:AppliedPositionID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"applied_position,omitempty"`
}

// Notes - короткий доступ к распакованному JSON
func (a *CvApplication) Notes() InterviewNotes {
	return a.InterviewNotes.Data()
}

// InterviewNotes - JSON-мешок с данными интервью и решений
type InterviewNotes struct {
	Preference          string     `json:"preference,omitempty"`
	ScheduledTime       *time.Time `json:"scheduled_time,omitempty"`
	ScheduledEndTime    *time.Time `json:"scheduled_end_time,omitempty"`
	ManagerDecision     string     `json:"manager_decision,omitempty"`
	ManagerFeedback     string     `json:"manager_feedback,omitempty"`
	FinalScheduledTime  *time.Time `json:"final_scheduled_time,omitempty"`
	FinalDecision       string     `json:"final_decision,omitempty"`
	FinalFeedback       string     `json:"final_feedback,omitempty"`
	DecisionDate        *time.Time `json:"decision_date,omitempty"`
	ScheduleLink        string     `json:"schedule_link,omitempty"`
	OnboardingTime      *time.Time `json:"onboarding_time,omitempty"`
	ScheduleTriggeredAt *time.Time `json:"schedule_triggered_at,omitempty"`

	Extra map[string]interface{} `json:"extra,omitempty"`
}

// Merge накладывает непустые поля patch поверх n
func (n InterviewNotes) Merge(patch InterviewNotes) InterviewNotes {
	out := n
	if patch.Preference != "" {
		out.Preference = patch.Preference
	}
	if patch.ScheduledTime != nil {
		out.ScheduledTime = patch.ScheduledTime
	}
	if patch.ScheduledEndTime != nil {
		out.ScheduledEndTime = patch.ScheduledEndTime
	}
	if patch.ManagerDecision != "" {
		out.ManagerDecision = patch.ManagerDecision
	}
	if patch.ManagerFeedback != "" {
		out.ManagerFeedback = patch.ManagerFeedback
	}
	if patch.FinalScheduledTime != nil {
		out.FinalScheduledTime = patch.FinalScheduledTime
	}
	if patch.FinalDecision != "" {
		out.FinalDecision = patch.FinalDecision
	}
	if patch.FinalFeedback != "" {
		out.FinalFeedback = patch.FinalFeedback
	}
	if patch.DecisionDate != nil {
		out.DecisionDate = patch.DecisionDate
	}
	if patch.ScheduleLink != "" {
		out.ScheduleLink = patch.ScheduleLink
	}
	if patch.OnboardingTime != nil {
		out.OnboardingTime = patch.OnboardingTime
	}
	if patch.ScheduleTriggeredAt != nil {
		out.ScheduleTriggeredAt = patch.ScheduleTriggeredAt
	}
	if len(patch.Extra) > 0 {
		merged := make(map[string]interface{}, len(n.Extra)+len(patch.Extra))
		for k, v := range n.Extra {
			merged[k] = v
		}
		for k, v := range patch.Extra {
			merged[k] = v
		}
		out.Extra = merged
	}
	return out
}

// ApplicationStatusHistory - журнал переходов статуса заявки
type ApplicationStatusHistory struct {
	BaseModel
	ApplicationID string            `gorm:"type:varchar(36);not null;index" json:"application_id"`
	FromStatus    ApplicationStatus `gorm:"type:varchar(40)" json:"from_status"`
	ToStatus      ApplicationStatus `gorm:"type:varchar(40);not null" json:"to_status"`
	ActorID       *string           `gorm:"type:varchar(36)" json:"actor_id,omitempty"`
	ActorRole     UserRole          `gorm:"type:varchar(20)" json:"actor_role"`
	Comment       string            `gorm:"type:text" json:"comment,omitempty"`

	Application *CvApplication `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ApplicationStatusHistory) TableName() string {
	return "application_status_history"
}

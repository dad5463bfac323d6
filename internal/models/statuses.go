package models

type UserRole string
type PositionStatus string
type ApplicationStatus string
type ScheduleKind string

const (
	UserRoleHeadHR  UserRole = "head_hr"
	UserRoleStaffHR UserRole = "staff_hr"
	UserRoleManager UserRole = "manager"

	// RoleSystem - не хранится в users, используется воркерами и скорингом
	RoleSystem UserRole = "system"
)

const (
	PositionStatusDraft    PositionStatus = "DRAFT"
	PositionStatusApproved PositionStatus = "APPROVED"
	PositionStatusOpen     PositionStatus = "OPEN"
	PositionStatusClosed   PositionStatus = "CLOSED"
	PositionStatusRejected PositionStatus = "REJECTED"
)

const (
	ApplicationStatusSubmitted            ApplicationStatus = "SUBMITTED"
	ApplicationStatusReviewed             ApplicationStatus = "REVIEWED"
	ApplicationStatusStaffApproved        ApplicationStatus = "STAFF_APPROVED"
	ApplicationStatusStaffRejected        ApplicationStatus = "STAFF_REJECTED"
	ApplicationStatusInterviewQueued      ApplicationStatus = "INTERVIEW_QUEUED"
	ApplicationStatusInterviewScheduled   ApplicationStatus = "INTERVIEW_SCHEDULED"
	ApplicationStatusPendingFinalDecision ApplicationStatus = "PENDING_FINAL_DECISION"
	ApplicationStatusHired                ApplicationStatus = "HIRED"
	ApplicationStatusNotHired             ApplicationStatus = "NOT_HIRED"
	ApplicationStatusOnboarding           ApplicationStatus = "ONBOARDING"
)

const (
	ScheduleKindManagerInterview ScheduleKind = "MANAGER_INTERVIEW"
	ScheduleKindFinalInterview   ScheduleKind = "FINAL_INTERVIEW"
	ScheduleKindOnboarding       ScheduleKind = "ONBOARDING"
	ScheduleKindManual           ScheduleKind = "MANUAL"
)

var (
	UserRoles = []UserRole{UserRoleHeadHR, UserRoleStaffHR, UserRoleManager}

	PositionStatuses = []PositionStatus{
		PositionStatusDraft, PositionStatusApproved, PositionStatusOpen,
		PositionStatusClosed, PositionStatusRejected,
	}

	ApplicationStatuses = []ApplicationStatus{
		ApplicationStatusSubmitted, ApplicationStatusReviewed,
		ApplicationStatusStaffApproved, ApplicationStatusStaffRejected,
		ApplicationStatusInterviewQueued, ApplicationStatusInterviewScheduled,
		ApplicationStatusPendingFinalDecision, ApplicationStatusHired,
		ApplicationStatusNotHired, ApplicationStatusOnboarding,
	}
)

func (r UserRole) Valid() bool {
	for _, v := range UserRoles {
		if v == r {
			return true
		}
	}
	return false
}

func (s PositionStatus) Valid() bool {
	for _, v := range PositionStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

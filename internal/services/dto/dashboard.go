package dto

import "hrflow_backend/internal/models"

type DashboardSummary struct {
	PositionsByStatus    map[models.PositionStatus]int64    `json:"positions_by_status"`
	ApplicationsByStatus map[models.ApplicationStatus]int64 `json:"applications_by_status"`
	OpenPositions        int64                              `json:"open_positions"`
	TotalApplications    int64                              `json:"total_applications"`
	HiresThisMonth       int64                              `json:"hires_this_month"`
	UpcomingInterviews   int64                              `json:"upcoming_interviews"`
}

// DayCount - точка графика заявок по дням (date в формате 2006-01-02)
type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type PositionCount struct {
	PositionID   *string `json:"position_id"`
	PositionName string  `json:"position_name"`
	Count        int64   `json:"count"`
}

type FunnelStep struct {
	Status models.ApplicationStatus `json:"status"`
	Count  int64                    `json:"count"`
}

type DashboardCharts struct {
	Days                    int             `json:"days"`
	ApplicationsPerDay      []DayCount      `json:"applications_per_day"`
	ApplicationsPerPosition []PositionCount `json:"applications_per_position"`
	StatusFunnel            []FunnelStep    `json:"status_funnel"`
}

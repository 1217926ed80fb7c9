package availability

import "mentorhub/internal/domain"

// TemplateRequest carries a full weekly template keyed by weekday name.
// Saving always replaces the existing template wholesale.
type TemplateRequest struct {
	Monday    []domain.TimeRange `json:"monday"`
	Tuesday   []domain.TimeRange `json:"tuesday"`
	Wednesday []domain.TimeRange `json:"wednesday"`
	Thursday  []domain.TimeRange `json:"thursday"`
	Friday    []domain.TimeRange `json:"friday"`
	Saturday  []domain.TimeRange `json:"saturday"`
	Sunday    []domain.TimeRange `json:"sunday"`
}

type ExceptionRequest struct {
	Date      string `json:"date" binding:"required" example:"2026-09-15"`
	StartTime string `json:"start_time" example:"13:00"`
	EndTime   string `json:"end_time" example:"15:00"`
	Reason    string `json:"reason"`
}

type AvailabilityResponse struct {
	MentorID int64      `json:"mentor_id"`
	Days     []DaySlots `json:"days"`
}

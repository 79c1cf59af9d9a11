package dto

type DashboardStatsDTO struct {
	TotalTickets      int `json:"totalTickets"`
	PendingTickets    int `json:"pendingTickets"`
	InProgressTickets int `json:"inProgressTickets"`
	CompletedTickets  int `json:"completedTickets"`
	TotalChange       int `json:"totalChange"`
	PendingChange     int `json:"pendingChange"`
	InProgressChange  int `json:"inProgressChange"`
	CompletedChange   int `json:"completedChange"`
}

type CategoryStatsDTO struct {
	Electrical int `json:"electrical"`
	Plumbing   int `json:"plumbing"`
	AC         int `json:"ac"`
	Furniture  int `json:"furniture"`
	IT         int `json:"it"`
	Other      int `json:"other"`
}

type MonthlyTrendDTO struct {
	Month      string `json:"month"`
	Waiting    int    `json:"waiting"`
	InProgress int    `json:"inProgress"`
	Completed  int    `json:"completed"`
}

type DateRangeDTO struct {
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"required,datetime=2006-01-02"`
	FacilityType string `json:"facilityType,omitempty" validate:"omitempty,oneof=all electrical plumbing ac furniture it other"`
	Status       string `json:"status,omitempty" validate:"omitempty,oneof=all waiting in_progress completed"`
}

type ReportSummaryDTO struct {
	TotalTickets         int    `json:"totalTickets"`
	AvgCompletionTime    string `json:"avgCompletionTime"`
	OnTimePercentage     string `json:"onTimePercentage"`
	TechnicianEfficiency string `json:"technicianEfficiency"`
}

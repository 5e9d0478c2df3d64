package dto

// StudentListItem is one student with submissions, aggregated
type StudentListItem struct {
	StudentID      string  `json:"student_id" example:"2023210001"`
	Name           string  `json:"name" example:"Li Hua"`
	SubmitCount    int64   `json:"submit_count" example:"3"`
	LastSubmitTime *string `json:"last_submit_time" example:"2024-06-01 10:00:00"`
	AuditStatus    bool    `json:"audit_status" example:"false"`
}

// StudentSummary is the aggregate view of one user
type StudentSummary struct {
	StudentID         string  `json:"student_id" example:"2023210001"`
	Name              string  `json:"name" example:"Li Hua"`
	TotalAchievements int64   `json:"total_achievements" example:"3"`
	LastSubmitTime    *string `json:"last_submit_time"`
	AuditStatus       bool    `json:"audit_status" example:"true"`
}

// StudentQuery are the student listing filters
type StudentQuery struct {
	StudentID   string `form:"student_id"`
	Name        string `form:"name"`
	AuditStatus *bool  `form:"audit_status"`
}

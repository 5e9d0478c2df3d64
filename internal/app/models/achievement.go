package models

import "time"

// Achievement is the submission envelope owning every category record of one submit call.
type Achievement struct {
	ID          int64      `json:"id" db:"id"`
	StudentID   string     `json:"studentId" db:"student_id"`
	OpenID      *string    `json:"openid,omitempty" db:"openid"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	AuditStatus bool       `json:"auditStatus" db:"audit_status"`
	AuditNote   *string    `json:"auditNote,omitempty" db:"audit_note"`
	AuditTime   *time.Time `json:"auditTime,omitempty" db:"audit_time"`
	AuditedBy   *string    `json:"auditedBy,omitempty" db:"audited_by"`
}

// Paper is a published paper record
type Paper struct {
	ID            int64   `db:"id"`
	AchievementID int64   `db:"achievement_id"`
	Title         string  `db:"title"`
	Journal       string  `db:"journal"`
	PublishDate   string  `db:"publish_date"`
	Images        []Image `db:"-"`
}

// PolicyReport is a policy report adopted by some unit
type PolicyReport struct {
	ID            int64   `db:"id"`
	AchievementID int64   `db:"achievement_id"`
	Title         string  `db:"title"`
	AdoptUnit     string  `db:"adopt_unit"`
	SubmitDate    string  `db:"submit_date"`
	Images        []Image `db:"-"`
}

// AcademicExchange is participation in an academic event
type AcademicExchange struct {
	ID              int64   `db:"id"`
	AchievementID   int64   `db:"achievement_id"`
	Name            string  `db:"name"`
	ParticipateType string  `db:"participate_type"`
	ExchangeDate    string  `db:"exchange_date"`
	Images          []Image `db:"-"`
}

// VolunteerService is a volunteer project with served hours
type VolunteerService struct {
	ID            int64   `db:"id"`
	AchievementID int64   `db:"achievement_id"`
	ProjectName   string  `db:"project_name"`
	Hours         float64 `db:"hours"`
	ServiceDate   string  `db:"service_date"`
	Images        []Image `db:"-"`
}

// Award is a prize at some level
type Award struct {
	ID            int64   `db:"id"`
	AchievementID int64   `db:"achievement_id"`
	Name          string  `db:"name"`
	Level         string  `db:"level"`
	AwardDate     string  `db:"award_date"`
	Images        []Image `db:"-"`
}

// Submission is a validated submit call, ready to be persisted in one transaction.
// Image slices carry stored file paths.
type Submission struct {
	StudentID  string
	OpenID     *string
	Papers     []Paper
	Policies   []PolicyReport
	Academics  []AcademicExchange
	Volunteers []VolunteerService
	Awards     []Award
}

// Empty reports whether the submission holds no category record
func (s *Submission) Empty() bool {
	return len(s.Papers)+len(s.Policies)+len(s.Academics)+len(s.Volunteers)+len(s.Awards) == 0
}

// AchievementDetail is an achievement with its category records and their images
type AchievementDetail struct {
	Achievement
	StudentName string
	Papers      []Paper
	Policies    []PolicyReport
	Academics   []AcademicExchange
	Volunteers  []VolunteerService
	Awards      []Award
}

// AchievementFilter narrows achievement listings; nil fields are not applied
type AchievementFilter struct {
	AuditStatus *bool
	StudentID   *string
}

// StudentFilter narrows the student summary listing
type StudentFilter struct {
	// StudentID and Name are case-insensitive substring matches
	StudentID string
	Name      string
	// AuditStatus filters on the all-audited flag
	AuditStatus *bool
}

// StudentSummary aggregates the submissions of one user
type StudentSummary struct {
	StudentID      string
	Name           string
	SubmitCount    int64
	LastSubmitTime *time.Time
	// AllAudited is true when no submission of the student is unaudited
	AllAudited bool
}

package dto

import (
	"encoding/json"
	"strings"
)

// PaperItem is one paper entry of a submission
type PaperItem struct {
	Title   string   `json:"title" example:"Graph Neural Networks for Course Planning"`
	Journal string   `json:"journal" example:"Journal of Educational Data"`
	Date    string   `json:"date" example:"2024-05"`
	Images  []string `json:"images"`
}

// PolicyItem is one policy report entry of a submission
type PolicyItem struct {
	Title     string   `json:"title"`
	AdoptUnit string   `json:"adopt_unit"`
	Date      string   `json:"date"`
	Images    []string `json:"images"`
}

// AcademicItem is one academic exchange entry. TypeIndex selects the participation type.
type AcademicItem struct {
	Name      string   `json:"name"`
	TypeIndex *int     `json:"typeIndex" example:"1"`
	Date      string   `json:"date"`
	Images    []string `json:"images"`
}

// VolunteerItem is one volunteer service entry. Hours may be sent as a number or a string.
type VolunteerItem struct {
	ProjectName string     `json:"project_name"`
	Hours       FlexNumber `json:"hours" swaggertype:"number" example:"12.5"`
	Date        string     `json:"date"`
	Images      []string   `json:"images"`
}

// AwardItem is one award entry. LevelIndex selects the award level.
type AwardItem struct {
	Name       string   `json:"name"`
	LevelIndex *int     `json:"levelIndex" example:"2"`
	Date       string   `json:"date"`
	Images     []string `json:"images"`
}

// SubmitRequest is the body of a submission
type SubmitRequest struct {
	StudentID     string          `json:"student_id" binding:"required" example:"2023210001"`
	OpenID        string          `json:"openid"`
	PaperList     []PaperItem     `json:"paperList"`
	PolicyList    []PolicyItem    `json:"policyList"`
	AcademicList  []AcademicItem  `json:"academicList"`
	VolunteerList []VolunteerItem `json:"volunteerList"`
	AwardList     []AwardItem     `json:"awardList"`
}

// SubmitResponse reports the id of the stored submission
type SubmitResponse struct {
	Result
	AchievementID int64  `json:"achievement_id,omitempty" example:"17"`
	StudentID     string `json:"student_id,omitempty" example:"2023210001"`
}

// FlexNumber keeps the raw JSON of a numeric field that clients send either as a
// number or as a string.
type FlexNumber struct {
	raw string
}

// NewFlexNumber builds a FlexNumber from its textual form
func NewFlexNumber(s string) FlexNumber {
	return FlexNumber{raw: s}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *FlexNumber) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		n.raw = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = str
	}
	n.raw = strings.TrimSpace(s)
	return nil
}

// MarshalJSON implements json.Marshaler
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.raw)
}

// String returns the trimmed textual value, "" when absent
func (n FlexNumber) String() string {
	return n.raw
}

// AchievementListItem is one row of the reviewer listing
type AchievementListItem struct {
	ID          int64   `json:"id" example:"17"`
	StudentID   string  `json:"student_id" example:"2023210001"`
	StudentName string  `json:"student_name,omitempty" example:"Li Hua"`
	OpenID      *string `json:"openid"`
	CreateTime  string  `json:"create_time" example:"2024-06-01 10:00:00"`
	AuditStatus bool    `json:"audit_status" example:"false"`
	AuditNote   *string `json:"audit_note"`
	AuditTime   *string `json:"audit_time"`
	AuditedBy   *string `json:"audited_by"`
}

// PaperView is a paper with resolved image URLs
type PaperView struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Journal string   `json:"journal"`
	Date    string   `json:"date"`
	Images  []string `json:"images"`
}

// PolicyView is a policy report with resolved image URLs
type PolicyView struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	AdoptUnit string   `json:"adopt_unit"`
	Date      string   `json:"date"`
	Images    []string `json:"images"`
}

// AcademicView is an academic exchange with resolved image URLs
type AcademicView struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	ParticipateType string   `json:"participate_type"`
	Date            string   `json:"date"`
	Images          []string `json:"images"`
}

// VolunteerView is a volunteer service with resolved image URLs
type VolunteerView struct {
	ID          int64    `json:"id"`
	ProjectName string   `json:"project_name"`
	Hours       float64  `json:"hours"`
	Date        string   `json:"date"`
	Images      []string `json:"images"`
}

// AwardView is an award with resolved image URLs
type AwardView struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Level  string   `json:"level"`
	Date   string   `json:"date"`
	Images []string `json:"images"`
}

// AchievementDetail is the full view of one submission
type AchievementDetail struct {
	AchievementListItem
	Papers     []PaperView     `json:"papers"`
	Policies   []PolicyView    `json:"policies"`
	Academics  []AcademicView  `json:"academics"`
	Volunteers []VolunteerView `json:"volunteers"`
	Awards     []AwardView     `json:"awards"`
}

// AuditRequest sets the audit outcome of a submission
type AuditRequest struct {
	AuditStatus *bool  `json:"audit_status" binding:"required" example:"true"`
	AuditNote   string `json:"audit_note" binding:"max=200" example:"materials verified"`
}

// AuditResult is returned after an audit
type AuditResult struct {
	ID          int64   `json:"id" example:"17"`
	StudentID   string  `json:"student_id" example:"2023210001"`
	AuditStatus bool    `json:"audit_status" example:"true"`
	AuditNote   *string `json:"audit_note"`
	AuditTime   *string `json:"audit_time" example:"2024-06-02 09:30:00"`
	AuditedBy   *string `json:"audited_by" example:"T1001"`
}

// AchievementQuery are the reviewer listing filters; page and size are parsed separately
type AchievementQuery struct {
	AuditStatus *bool  `form:"audit_status"`
	StudentID   string `form:"student_id"`
}

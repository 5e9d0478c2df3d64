package models

import "time"

// CategoryKind tags which category table an image attachment belongs to
type CategoryKind string

const (
	KindPaper            CategoryKind = "paper"
	KindPolicyReport     CategoryKind = "policy_report"
	KindAcademicExchange CategoryKind = "academic_exchange"
	KindVolunteerService CategoryKind = "volunteer_service"
	KindAward            CategoryKind = "award"
)

// Valid reports whether k names one of the five category tables
func (k CategoryKind) Valid() bool {
	switch k {
	case KindPaper, KindPolicyReport, KindAcademicExchange, KindVolunteerService, KindAward:
		return true
	}
	return false
}

// Image is an uploaded file attached to exactly one category record.
// Kind and RecordID together identify the owner.
type Image struct {
	ID            int64        `json:"id" db:"id"`
	AchievementID int64        `json:"achievementId" db:"achievement_id"`
	Kind          CategoryKind `json:"kind" db:"category_kind"`
	RecordID      int64        `json:"recordId" db:"record_id"`
	FilePath      string       `json:"filePath" db:"file_path"`
	FileName      *string      `json:"fileName,omitempty" db:"file_name"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
}

// ImagePaths returns the stored paths of images, in order
func ImagePaths(images []Image) []string {
	paths := make([]string, 0, len(images))
	for _, img := range images {
		paths = append(paths, img.FilePath)
	}
	return paths
}

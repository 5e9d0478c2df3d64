package models

import (
	"fmt"

	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
)

// Vocabulary is a fixed, ordered list of classification labels addressed by index
type Vocabulary struct {
	field  string
	labels []string
}

var (
	// ParticipateTypes: attend, oral report, poster, other
	ParticipateTypes = Vocabulary{field: "typeIndex", labels: []string{"参会", "报告发言", "墙报展示", "其他"}}
	// AwardLevels: school, city, provincial, national, international
	AwardLevels = Vocabulary{field: "levelIndex", labels: []string{"校级", "市级", "省级", "国家级", "国际级"}}
)

// Resolve returns the label at index. A nil index selects the first label.
func (v Vocabulary) Resolve(index *int) (string, error) {
	i := 0
	if index != nil {
		i = *index
	}
	if i < 0 || i >= len(v.labels) {
		return "", apperrors.NewValidationError(
			fmt.Sprintf("%s %d out of range [0,%d]", v.field, i, len(v.labels)-1))
	}
	return v.labels[i], nil
}

// Labels returns a copy of the ordered labels
func (v Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccnu/student-achievements/internal/pkg/apperrors"
)

func intPtr(i int) *int { return &i }

func TestVocabularyResolve(t *testing.T) {
	tests := []struct {
		name    string
		vocab   Vocabulary
		index   *int
		want    string
		wantErr bool
	}{
		{"absent index defaults to first", AwardLevels, nil, "校级", false},
		{"provincial award", AwardLevels, intPtr(2), "省级", false},
		{"last award level", AwardLevels, intPtr(4), "国际级", false},
		{"award level past end", AwardLevels, intPtr(5), "", true},
		{"negative index", ParticipateTypes, intPtr(-1), "", true},
		{"poster", ParticipateTypes, intPtr(2), "墙报展示", false},
		{"participate type past end", ParticipateTypes, intPtr(4), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.vocab.Resolve(tt.index)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVocabularyLabelsIsCopy(t *testing.T) {
	labels := ParticipateTypes.Labels()
	labels[0] = "changed"
	assert.Equal(t, "参会", ParticipateTypes.Labels()[0])
}

func TestRoleHelpers(t *testing.T) {
	assert.True(t, RoleStudentLeader.Valid())
	assert.False(t, Role("admin").Valid())
	assert.True(t, RoleTeacher.IsStaff())
	assert.False(t, RoleStudent.IsStaff())
	assert.True(t, RoleTeacher.In(GrantableRoles))
	assert.False(t, RoleSuperAdmin.In(GrantableRoles))
}

func TestCategoryKindValid(t *testing.T) {
	for _, k := range []CategoryKind{KindPaper, KindPolicyReport, KindAcademicExchange, KindVolunteerService, KindAward} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, CategoryKind("thesis").Valid())
}

func TestSubmissionEmpty(t *testing.T) {
	s := Submission{StudentID: "2023001"}
	assert.True(t, s.Empty())
	s.Awards = append(s.Awards, Award{Name: "Math Olympiad"})
	assert.False(t, s.Empty())
}

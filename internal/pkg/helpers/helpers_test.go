package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		page, size    int
		offset, limit uint64
	}{
		{1, 10, 0, 10},
		{3, 20, 40, 20},
		{0, 0, 0, DefaultPageSize},
		{2, 500, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		offset, limit := CalculateOffsetLimit(tt.page, tt.size)
		assert.Equal(t, tt.offset, offset, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.limit, limit, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(21, 2, 10)
	assert.Equal(t, int64(21), info.Total)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.Page)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Zero(t, empty.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query      string
		page, size int
	}{
		{"", 1, 10},
		{"?page=4&size=25", 4, 25},
		{"?page=abc&size=-1", 1, 10},
		{"?size=1000", 1, MaxPageSize},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/admin/achievements"+tt.query, nil)
		page, size := ParsePaginationParams(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%li%", ContainsPattern("li"))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, NullIfEmpty("   "))
	v := NullIfEmpty(" note ")
	if assert.NotNil(t, v) {
		assert.Equal(t, "note", *v)
	}
	assert.Equal(t, "", Deref(nil))
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)
	assert.Equal(t, "2024-06-01 10:00:00", FormatTime(ts))
	assert.Nil(t, FormatTimePtr(nil))
	assert.Equal(t, "2024-06-01 10:00:00", *FormatTimePtr(&ts))
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("later", time.Minute))
}

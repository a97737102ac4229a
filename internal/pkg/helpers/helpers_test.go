package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 10)
	assert.Equal(t, uint64(20), offset)
	assert.Equal(t, 10, limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)

	empty := NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query      string
		page, size int
	}{
		{"page=4&size=5", 4, 5},
		{"page=-1&size=abc", DefaultPage, DefaultPageSize},
		{"", DefaultPage, DefaultPageSize},
	}
	for _, tt := range tests {
		// gin caches parsed query values per context
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/network?"+tt.query, nil)

		page, size := ParsePaginationParams(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.size, size, tt.query)
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("forever", time.Minute))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, EscapeLike(`50% off_now\`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("3f1c2a9e-6a0b-4d5e-9a3f-2c1b0e9d8f7a"))
	assert.False(t, IsUUID("not-a-uuid"))
	assert.False(t, IsUUID(""))
}

func TestNullIfBlank(t *testing.T) {
	assert.Nil(t, NullIfBlank(nil))
	blank := "   "
	assert.Nil(t, NullIfBlank(&blank))
	v := "  Zoho "
	got := NullIfBlank(&v)
	if assert.NotNil(t, got) {
		assert.Equal(t, "Zoho", *got)
	}
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("ZOHO", "Backend Engineer", "Zoho Corp"))
	assert.True(t, ContainsFold("", "anything"))
	assert.False(t, ContainsFold("google", "Backend Engineer", "Zoho Corp"))
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "studymate:chat:session:student-1",
		GenerateCacheKey("chat", "session", "student-1"))

	assert.Equal(t, "studymate:recommendation:fyp:student-1:page1_size10",
		GenerateCacheKey("recommendation", "fyp", "student-1", "page1", "size10"))
}

package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		limit    string
		expected Page
	}{
		{"defaults", "", "", Page{Page: 1, Limit: 10}},
		{"explicit", "3", "25", Page{Page: 3, Limit: 25}},
		{"malformed", "abc", "-", Page{Page: 1, Limit: 10}},
		{"non positive", "0", "-5", Page{Page: 1, Limit: 10}},
		{"capped", "2", "1000", Page{Page: 2, Limit: MaxLimit}},
		{"huge page", "1000000000000000000", "10", Page{Page: math.MaxInt / 10, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParsePage(tt.page, tt.limit))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Page{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 40, Page{Page: 5, Limit: 10}.Offset())

	for _, limit := range []string{"1", "7", "10", "100"} {
		p := ParsePage("1000000000000000000", limit)
		assert.Positive(t, p.Offset(), "limit=%s", limit)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int64
		limit    int
		expected int64
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{99, 7, 15},
		{5, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestPatterns(t *testing.T) {
	assert.Equal(t, "%alice%", ContainsPattern("Alice"))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
	assert.Equal(t, `a\\b%`, PrefixPattern(`a\b`))
	assert.Equal(t, "%%", ContainsPattern(""))
}

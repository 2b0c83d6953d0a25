package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{
		0:             "0",
		999:           "999",
		1_000:         "1.0K",
		1_250:         "1.2K",
		3_400_000:     "3.4M",
		1_000_000_000: "1.0B",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatSubscribers(t *testing.T) {
	tests := map[int]string{
		7:             "7",
		1_999:         "1K",
		2_500_000:     "2M",
		3_000_000_000: "3B",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatSubscribers(in), "FormatSubscribers(%d)", in)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "0 seconds ago"},
		{time.Second, "1 second ago"},
		{90 * time.Second, "1 minute ago"},
		{5 * time.Hour, "5 hours ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{65 * 24 * time.Hour, "2 months ago"},
		{800 * 24 * time.Hour, "2 years ago"},
		{-time.Minute, "0 seconds ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeAgo(now.Add(-tt.ago), now))
	}
}

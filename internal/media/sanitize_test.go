package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"clean", "In Praise of Maintenance", "In Praise of Maintenance"},
		{"question mark", "Is Everybody Cheating?", "Is Everybody Cheating"},
		{"slashes and colons", "Part 1/2: The Setup", "Part 12 The Setup"},
		{"quotes and pipes", `A "Simple" Plan | Extended`, "A Simple Plan Extended"},
		{"backslash and asterisk", `Why\Not*Now`, "WhyNotNow"},
		{"angle brackets", "<html> Is Not a Title", "html Is Not a Title"},
		{"whitespace collapse", "Too   many    spaces", "Too many spaces"},
		{"trailing dot", "Abbrev.", "Abbrev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

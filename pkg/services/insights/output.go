package insightsservice

import (
	"os"
	"strings"
)

// WriteSegments overwrites path with the segments joined by a newline. There
// is no trailing newline, so splitting the content on "\n" gives the segments back.
func WriteSegments(path string, segments []string) error {
	return os.WriteFile(path, []byte(strings.Join(segments, "\n")), 0644)
}

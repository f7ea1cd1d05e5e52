package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BuildLayout is the format of the build timestamp stored in the image header.
const BuildLayout = "15:04 Jan 02 06"

// Version identifies a firmware release.
type Version struct {
	Brand  string
	Number string    // for example "3.30"
	Build  time.Time // zero if the image has no readable build timestamp
}

// ParseBuild parses a header build timestamp like "10:51 Apr 20 00".
func ParseBuild(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	t, err := time.Parse(BuildLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing build timestamp '%s': %w", s, err)
	}
	return t, nil
}

// SortKey returns a key that orders versions by number, then by build time.
// Releases sharing a number and lacking a build timestamp compare equal.
func (v Version) SortKey() string {
	major, minor := v.numberParts()
	build := "0000-00-00 00:00"
	if !v.Build.IsZero() {
		build = v.Build.Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%04d.%04d %s", major, minor, build)
}

func (v Version) numberParts() (int, int) {
	majorText, minorText, _ := strings.Cut(v.Number, ".")
	major, _ := strconv.Atoi(majorText)
	minor, _ := strconv.Atoi(minorText)
	return major, minor
}

func (v Version) String() string {
	var sb strings.Builder
	sb.WriteString(v.Brand)
	if v.Number != "" {
		sb.WriteString(" v")
		sb.WriteString(v.Number)
	}
	if !v.Build.IsZero() {
		sb.WriteString(" (")
		sb.WriteString(v.Build.Format(BuildLayout))
		sb.WriteString(")")
	}
	return strings.TrimSpace(sb.String())
}

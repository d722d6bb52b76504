package baseline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion accepts semantic versions and four-part versions such as
// "1.2.3.v20240101". The fourth segment becomes build metadata, so it never
// affects ordering.
func ParseVersion(s string) (*semver.Version, error) {
	s = strings.TrimSpace(s)
	if v, err := semver.NewVersion(s); err == nil {
		return v, nil
	}
	parts := strings.SplitN(s, ".", 4)
	if len(parts) == 4 {
		meta := sanitizeMeta(parts[3])
		candidate := strings.Join(parts[:3], ".")
		if meta != "" {
			candidate += "+" + meta
		}
		if v, err := semver.NewVersion(candidate); err == nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("invalid version %q", s)
}

func sanitizeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// MajorMinor extracts the first two numeric segments. It falls back to a
// plain split when the version is not parseable as a whole.
func MajorMinor(s string) (major, minor uint64, ok bool) {
	if v, err := ParseVersion(s); err == nil {
		return v.Major(), v.Minor(), true
	}
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 {
		return 0, 0, false
	}
	major, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	if len(parts) > 1 {
		if minor, err = strconv.ParseUint(parts[1], 10, 64); err != nil {
			return major, 0, true
		}
	}
	return major, minor, true
}

// ParseRange accepts interval ranges "[1.0,2.0)", bare minimum versions
// "1.2" (meaning at least 1.2), and semver constraint expressions.
func ParseRange(s string) (*semver.Constraints, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return semver.NewConstraint("*")
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(") {
		return parseInterval(s)
	}
	if _, err := semver.NewVersion(s); err == nil {
		return semver.NewConstraint(">= " + s)
	}
	return semver.NewConstraint(s)
}

func parseInterval(s string) (*semver.Constraints, error) {
	if len(s) < 2 {
		return nil, fmt.Errorf("invalid range %q", s)
	}
	lo, hi := s[0], s[len(s)-1]
	if hi != ']' && hi != ')' {
		return nil, fmt.Errorf("invalid range %q", s)
	}
	bounds := strings.Split(s[1:len(s)-1], ",")
	if len(bounds) != 2 {
		return nil, fmt.Errorf("invalid range %q", s)
	}
	low, high := strings.TrimSpace(bounds[0]), strings.TrimSpace(bounds[1])
	lowOp, highOp := ">=", "<="
	if lo == '(' {
		lowOp = ">"
	}
	if hi == ')' {
		highOp = "<"
	}
	expr := lowOp + " " + low
	if high != "" {
		expr += ", " + highOp + " " + high
	}
	return semver.NewConstraint(expr)
}

// Satisfies reports whether version lies in rng.
func Satisfies(version, rng string) (bool, error) {
	c, err := ParseRange(rng)
	if err != nil {
		return false, err
	}
	v, err := ParseVersion(version)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}

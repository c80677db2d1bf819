package catalog

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnspecifiedSlot collects slot strings that could not be parsed.
const UnspecifiedSlot = "unspecified"

var nonNumeric = regexp.MustCompile(`[^\d.-]`)

// SanitizePrice strips everything but digits, dots and minus signs and reads
// what is left. Anything unreadable is 0.
func SanitizePrice(s string) float64 {
	v, err := strconv.ParseFloat(nonNumeric.ReplaceAllString(s, ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseAvailability treats a missing value as available.
func ParseAvailability(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || s == "available" || s == "true"
}

// ParseList accepts a JSON array, a JSON string, or a comma separated list.
func ParseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}

	var raw any
	if err := json.Unmarshal([]byte(s), &raw); err == nil {
		switch v := raw.(type) {
		case []any:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if str, ok := item.(string); ok {
					out = append(out, str)
				} else {
					out = append(out, fmt.Sprint(item))
				}
			}
			return out
		case string:
			return []string{v}
		default:
			return []string{}
		}
	}

	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var slotPattern = regexp.MustCompile(`(?i)^(\d{1,2})\s+([a-z]{3})\s+(\d{4})\s*•\s*(\d{1,2}):(\d{2})\s*(AM|PM)`)

// NormalizeSlots groups display strings like "12 Jan 2025 • 10:30 AM" by
// calendar date: {"2025-01-12": ["10:30 AM"]}.
func NormalizeSlots(items []string) map[string][]string {
	out := map[string][]string{}
	for _, raw := range items {
		date, clock, ok := parseSlot(raw)
		if !ok {
			out[UnspecifiedSlot] = append(out[UnspecifiedSlot], raw)
			continue
		}
		out[date] = append(out[date], clock)
	}
	return out
}

func parseSlot(raw string) (string, string, bool) {
	m := slotPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", "", false
	}

	month := strings.ToUpper(m[2][:1]) + strings.ToLower(m[2][1:])
	d, err := time.Parse("2 Jan 2006", fmt.Sprintf("%s %s %s", m[1], month, m[3]))
	if err != nil {
		return "", "", false
	}

	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	return d.Format("2006-01-02"), fmt.Sprintf("%02d:%02d %s", hour, minute, strings.ToUpper(m[6])), true
}

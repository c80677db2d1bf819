package appointment

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Clock is a 12-hour wall-clock time.
type Clock struct {
	Hour   int
	Minute int
	AmPm   string
}

func (c Clock) Valid() bool {
	return c.Hour >= 1 && c.Hour <= 12 &&
		c.Minute >= 0 && c.Minute <= 59 &&
		(c.AmPm == "AM" || c.AmPm == "PM")
}

// String renders "hh:mm AM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d %s", c.Hour, c.Minute, c.AmPm)
}

var timePattern = regexp.MustCompile(`([0-9]{1,2}):?([0-9]{0,2})\s*(AM|PM|am|pm)?`)

// ParseTime reads the first time-looking token in s. With an AM/PM suffix the
// hour must be 1-12; without one it is read as 24-hour and converted.
func ParseTime(s string) (Clock, bool) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Clock{}, false
	}

	hh, err := strconv.Atoi(m[1])
	if err != nil {
		return Clock{}, false
	}
	mm := 0
	if m[2] != "" {
		if mm, err = strconv.Atoi(m[2]); err != nil {
			return Clock{}, false
		}
	}
	if mm < 0 || mm > 59 {
		return Clock{}, false
	}

	if suffix := strings.ToUpper(m[3]); suffix != "" {
		if hh < 1 || hh > 12 {
			return Clock{}, false
		}
		return Clock{Hour: hh, Minute: mm, AmPm: suffix}, true
	}

	switch {
	case hh < 0 || hh > 23:
		return Clock{}, false
	case hh == 0:
		return Clock{Hour: 12, Minute: mm, AmPm: "AM"}, true
	case hh == 12:
		return Clock{Hour: 12, Minute: mm, AmPm: "PM"}, true
	case hh > 12:
		return Clock{Hour: hh - 12, Minute: mm, AmPm: "PM"}, true
	default:
		return Clock{Hour: hh, Minute: mm, AmPm: "AM"}, true
	}
}

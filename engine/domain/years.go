package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// YearRange is a production window. To is 0 while still in production.
type YearRange struct {
	From int
	To   int
}

// Open reports whether the range has no end year.
func (r YearRange) Open() bool { return r.To == 0 }

// Accepts "2011", "2009–2016", "2009 - 2016", "2014–present" and "2014–".
// En and em dashes are treated like hyphens.
var yearsRe = regexp.MustCompile(`^((?:19|20)\d{2})(?:\s*-\s*((?:19|20)\d{2}|present|current|now)?)?$`)

var dashReplacer = strings.NewReplacer("–", "-", "—", "-", "‒", "-")

// ParseYears parses the free-text years column of a compatible-models row.
func ParseYears(s string) (YearRange, error) {
	text := strings.ToLower(strings.TrimSpace(dashReplacer.Replace(s)))
	m := yearsRe.FindStringSubmatch(text)
	if m == nil {
		return YearRange{}, fieldError("years", s, ErrInvalidYears)
	}
	from, _ := strconv.Atoi(m[1])
	r := YearRange{From: from}
	switch {
	case m[2] == "" && !strings.Contains(text, "-"):
		r.To = from
	case m[2] == "", m[2] == "present", m[2] == "current", m[2] == "now":
		r.To = 0
	default:
		r.To, _ = strconv.Atoi(m[2])
	}

	if r.From < MinModelYear || r.From > MaxModelYear {
		return YearRange{}, fieldError("years", s, ErrYearOutOfRange)
	}
	if !r.Open() {
		if r.To > MaxModelYear {
			return YearRange{}, fieldError("years", s, ErrYearOutOfRange)
		}
		if r.To < r.From {
			return YearRange{}, fieldError("years", s, ErrInvalidYears)
		}
	}
	return r, nil
}

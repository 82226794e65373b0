// Package parse converts text scraped from the transfer pages into typed values.
// Parsers never fail hard: absent or malformed input yields ok == false.
package parse

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"transfer_scanner/internal/domain/entity"
)

//nolint:gochecknoglobals
var (
	amountPattern   = regexp.MustCompile(`\d[\d\s\x{00A0}\x{202F},.]*`)
	deadlinePattern = regexp.MustCompile(`(\d{1,2})[-./](\d{1,2})[-./](\d{4})\s+(\d{1,2}):(\d{2})`)
)

// Money returns the first amount in text: "45 000 US$" -> 45000.
func Money(text *string) (int64, bool) {
	if text == nil {
		return 0, false
	}

	match := amountPattern.FindString(*text)
	if match == "" {
		return 0, false
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, match)

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}

	return amount, true
}

// Deadline parses the site deadline, e.g. "Deadline: 16-10-2026 14:35".
// format decides which of the first two numbers is the day.
func Deadline(text *string, format entity.DateFormat) (time.Time, bool) {
	if text == nil {
		return time.Time{}, false
	}

	match := deadlinePattern.FindStringSubmatch(*text)
	if match == nil {
		return time.Time{}, false
	}

	nums := make([]int, 0, len(match)-1)

	for _, part := range match[1:] {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, false
		}

		nums = append(nums, n)
	}

	day, month := nums[0], nums[1]
	if format == entity.MonthDayYear {
		day, month = month, day
	}

	year, hour, minute := nums[2], nums[3], nums[4]

	if month < 1 || month > 12 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
	if t.Day() != day {
		return time.Time{}, false
	}

	return t, true
}

// PlayerID extracts the playerId query parameter from a relative or absolute listing link.
func PlayerID(link string) (string, bool) {
	if u, err := url.Parse(link); err == nil {
		if id := u.Query().Get("playerId"); id != "" {
			return id, true
		}
	}

	return entity.PlayerIDFromLine(link)
}

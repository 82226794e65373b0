package entity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	PlayerURLPrefix = "https://hattrick.org/goto.ashx?path=/Club/Players/Player.aspx?playerId="

	// RecordTimeLayout is the en-US general date format used inside deal lines.
	RecordTimeLayout = "1/2/2006 3:04:05 PM"

	recordTimeLayoutShort = "1/2/2006 3:04 PM"
	fieldSeparator        = " | "
)

//nolint:gochecknoglobals
var (
	playerIDPattern  = regexp.MustCompile(`playerId=(\d+)`)
	deadlinePattern  = regexp.MustCompile(`(?i)Deadline\s*(\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}(?::\d{2})? [AP]M)`)
	timestampPattern = regexp.MustCompile(`(?i)Timestamp\s+(\d{1,2}/\d{1,2}/\d{4}\s+\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM)?)`)
	whitespace       = regexp.MustCompile(`\s+`)
)

// DealRecord одна найденная сделка. В файле хранится строкой String().
type DealRecord struct {
	PlayerID       string
	Deadline       time.Time
	Price          int64
	Wage           *int64
	ReferenceValue int64
	RecordedAt     time.Time
}

func (d DealRecord) Link() string {
	return PlayerURLPrefix + d.PlayerID
}

func (d DealRecord) String() string {
	parts := []string{
		d.Link(),
		"Deadline " + d.Deadline.Format(RecordTimeLayout),
		"Price: " + strconv.FormatInt(d.Price, 10),
	}

	if d.Wage != nil {
		parts = append(parts, "Wage: "+strconv.FormatInt(*d.Wage, 10))
	}

	parts = append(parts,
		"Median: "+strconv.FormatInt(d.ReferenceValue, 10),
		"Timestamp "+d.RecordedAt.Format(RecordTimeLayout),
	)

	return strings.Join(parts, fieldSeparator)
}

// DealKey is the part of a deal line reconciliation works with.
type DealKey struct {
	PlayerID   string
	Deadline   time.Time
	RecordedAt time.Time
}

// ParseDealKey extracts player id, deadline and timestamp from any deal line,
// including lines written by older versions. ok is false unless all three are present.
func ParseDealKey(line string) (DealKey, bool) {
	playerID, ok := PlayerIDFromLine(line)
	if !ok {
		return DealKey{}, false
	}

	deadlineMatch := deadlinePattern.FindStringSubmatch(line)
	timestampMatch := timestampPattern.FindStringSubmatch(line)

	if deadlineMatch == nil || timestampMatch == nil {
		return DealKey{}, false
	}

	deadline, ok := parseRecordTime(deadlineMatch[1])
	if !ok {
		return DealKey{}, false
	}

	recordedAt, ok := parseRecordTime(timestampMatch[1])
	if !ok {
		return DealKey{}, false
	}

	return DealKey{
		PlayerID:   playerID,
		Deadline:   deadline,
		RecordedAt: recordedAt,
	}, true
}

func PlayerIDFromLine(line string) (string, bool) {
	match := playerIDPattern.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}

	return match[1], true
}

// ParseDealRecord is the inverse of DealRecord.String.
func ParseDealRecord(line string) (DealRecord, error) {
	key, ok := ParseDealKey(line)
	if !ok {
		return DealRecord{}, fmt.Errorf("deal line %q: missing player id, deadline or timestamp", line)
	}

	record := DealRecord{
		PlayerID:   key.PlayerID,
		Deadline:   key.Deadline,
		RecordedAt: key.RecordedAt,
	}

	for _, segment := range strings.Split(line, "|") {
		label, value, found := strings.Cut(strings.TrimSpace(segment), ":")
		if !found {
			continue
		}

		var target *int64

		switch label {
		case "Price":
			target = &record.Price
		case "Median":
			target = &record.ReferenceValue
		case "Wage":
			record.Wage = new(int64)
			target = record.Wage
		default:
			continue
		}

		amount, err := parseRecordAmount(value)
		if err != nil {
			return DealRecord{}, fmt.Errorf("deal line %s: %w", label, err)
		}

		*target = amount
	}

	return record, nil
}

func parseRecordTime(text string) (time.Time, bool) {
	text = whitespace.ReplaceAllString(strings.TrimSpace(text), " ")
	text = strings.ToUpper(text)

	for _, layout := range []string{RecordTimeLayout, recordTimeLayoutShort} {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseRecordAmount accepts "45000" as well as the legacy "45,000".
func parseRecordAmount(text string) (int64, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}

		return -1
	}, text)

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("strconv.ParseInt: %w", err)
	}

	return amount, nil
}

package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"transfer_scanner/internal/domain/entity"
)

func TestDealRecordString(t *testing.T) {
	rq := require.New(t)

	wage := int64(3200)
	record := entity.DealRecord{
		PlayerID:       "471234567",
		Deadline:       time.Date(2026, 10, 16, 14, 35, 0, 0, time.Local),
		Price:          45000,
		Wage:           &wage,
		ReferenceValue: 180000,
		RecordedAt:     time.Date(2026, 10, 16, 9, 5, 7, 0, time.Local),
	}

	rq.Equal(
		"https://hattrick.org/goto.ashx?path=/Club/Players/Player.aspx?playerId=471234567"+
			" | Deadline 10/16/2026 2:35:00 PM | Price: 45000 | Wage: 3200 | Median: 180000"+
			" | Timestamp 10/16/2026 9:05:07 AM",
		record.String(),
	)

	parsed, err := entity.ParseDealRecord(record.String())
	rq.NoError(err)
	rq.Equal(record, parsed)

	record.Wage = nil
	rq.NotContains(record.String(), "Wage")

	parsed, err = entity.ParseDealRecord(record.String())
	rq.NoError(err)
	rq.Nil(parsed.Wage)
}

func TestParseDealKey(t *testing.T) {
	testCases := []struct {
		name       string
		line       string
		ok         bool
		playerID   string
		deadline   time.Time
		recordedAt time.Time
	}{
		{
			name: "legacy line with thousands separators and no seconds",
			line: "https://hattrick.org/goto.ashx?path=/Club/Players/Player.aspx?playerId=123" +
				" | Deadline 10/16/2026 2:35 PM | Price: 45,000 | Median: 180,000 | Timestamp 10/16/2026 9:05:07 AM",
			ok:         true,
			playerID:   "123",
			deadline:   time.Date(2026, 10, 16, 14, 35, 0, 0, time.Local),
			recordedAt: time.Date(2026, 10, 16, 9, 5, 7, 0, time.Local),
		},
		{
			name: "missing timestamp",
			line: "https://hattrick.org/goto.ashx?path=/Club/Players/Player.aspx?playerId=123 | Deadline 10/16/2026 2:35 PM",
		},
		{
			name: "missing player id",
			line: "Deadline 10/16/2026 2:35 PM | Timestamp 10/16/2026 9:05:07 AM",
		},
		{
			name: "garbage",
			line: "not a deal",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			key, ok := entity.ParseDealKey(tc.line)
			rq.Equal(tc.ok, ok)

			if !tc.ok {
				return
			}

			rq.Equal(tc.playerID, key.PlayerID)
			rq.True(tc.deadline.Equal(key.Deadline))
			rq.True(tc.recordedAt.Equal(key.RecordedAt))
		})
	}
}

func TestParseDealRecordLegacyAmounts(t *testing.T) {
	rq := require.New(t)

	record, err := entity.ParseDealRecord(
		"https://hattrick.org/goto.ashx?path=/Club/Players/Player.aspx?playerId=77" +
			" | Deadline 1/2/2026 11:00:00 PM | Price: 1,250,000 | Median: 4,000,000 | Timestamp 1/2/2026 8:00:00 AM")

	rq.NoError(err)
	rq.Equal(int64(1250000), record.Price)
	rq.Equal(int64(4000000), record.ReferenceValue)
	rq.Nil(record.Wage)

	_, err = entity.ParseDealRecord("playerId=1 | Deadline soon")
	rq.Error(err)
}

func TestSearchFilterValues(t *testing.T) {
	rq := require.New(t)

	empty := ""
	filter := entity.DefaultSearchFilters().Filters[0]
	filter.Skill2 = &empty
	filter.Specialties = []entity.Specialty{entity.SpecialtyQuick}

	values := filter.Values()

	rq.Len(values, 9)
	rq.Equal(entity.FilterValue{Field: entity.FieldAgeMin, Value: "21"}, values[0])
	rq.Equal(entity.FilterValue{Field: entity.FieldBidMax, Value: "100000"}, values[7])
	rq.Equal(entity.FilterValue{Field: entity.FieldSpecialty, Value: "Quick"}, values[8])
}

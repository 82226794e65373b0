package entity

type DateFormat string

const (
	DayMonthYear DateFormat = "DayMonthYear"
	MonthDayYear DateFormat = "MonthDayYear"
)

// DealRule один уровень таблицы коэффициентов. UpperMedianLimit == nil
// означает неограниченный (последний) уровень.
type DealRule struct {
	UpperMedianLimit *int64  `json:"UpperMedianLimit" validate:"omitempty,gt=0"`
	ProfitFactor     float64 `json:"ProfitFactor" validate:"gt=0"`
}

func (r DealRule) Unbounded() bool {
	return r.UpperMedianLimit == nil
}

func DefaultDealRules() []DealRule {
	limit := func(v int64) *int64 { return &v }

	return []DealRule{
		{UpperMedianLimit: limit(100000), ProfitFactor: 3},
		{UpperMedianLimit: limit(500000), ProfitFactor: 2},
		{UpperMedianLimit: nil, ProfitFactor: 1.5},
	}
}

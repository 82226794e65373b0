package entity

// FilterField is a semantic search-form field.
type FilterField string

const (
	FieldAgeMin                FilterField = "AgeMin"
	FieldAgeDaysMin            FilterField = "AgeDaysMin"
	FieldAgeMax                FilterField = "AgeMax"
	FieldAgeDaysMax            FilterField = "AgeDaysMax"
	FieldSkill1                FilterField = "Skill1"
	FieldSkill1Min             FilterField = "Skill1Min"
	FieldSkill1Max             FilterField = "Skill1Max"
	FieldSkill2                FilterField = "Skill2"
	FieldSkill2Min             FilterField = "Skill2Min"
	FieldSkill2Max             FilterField = "Skill2Max"
	FieldSkill3                FilterField = "Skill3"
	FieldSkill3Min             FilterField = "Skill3Min"
	FieldSkill3Max             FilterField = "Skill3Max"
	FieldSkill4                FilterField = "Skill4"
	FieldSkill4Min             FilterField = "Skill4Min"
	FieldSkill4Max             FilterField = "Skill4Max"
	FieldBidMax                FilterField = "BidMax"
	FieldBornIn                FilterField = "BornIn"
	FieldContinent             FilterField = "Continent"
	FieldTSIMin                FilterField = "TSIMin"
	FieldTSIMax                FilterField = "TSIMax"
	FieldSalaryMin             FilterField = "SalaryMin"
	FieldSalaryMax             FilterField = "SalaryMax"
	FieldTransferCompareAvgMin FilterField = "TransferCompareAvgMin"
	FieldTransferCompareAvgMax FilterField = "TransferCompareAvgMax"
	FieldSpecialty             FilterField = "Specialty"
)

type Specialty string

const (
	SpecialtyTechnical     Specialty = "Technical"
	SpecialtyQuick         Specialty = "Quick"
	SpecialtyPowerful      Specialty = "Powerful"
	SpecialtyUnpredictable Specialty = "Unpredictable"
	SpecialtyHead          Specialty = "Head"
	SpecialtyResilient     Specialty = "Resilient"
	SpecialtySupport       Specialty = "Support"
)

// SearchFilter набор значений формы поиска трансферов. nil поля не трогаются.
type SearchFilter struct {
	AgeMin                *string     `json:"AgeMin"`
	AgeDaysMin            *string     `json:"AgeDaysMin"`
	AgeMax                *string     `json:"AgeMax"`
	AgeDaysMax            *string     `json:"AgeDaysMax"`
	Skill1                *string     `json:"Skill1"`
	Skill1Min             *string     `json:"Skill1Min"`
	Skill1Max             *string     `json:"Skill1Max"`
	Skill2                *string     `json:"Skill2"`
	Skill2Min             *string     `json:"Skill2Min"`
	Skill2Max             *string     `json:"Skill2Max"`
	Skill3                *string     `json:"Skill3"`
	Skill3Min             *string     `json:"Skill3Min"`
	Skill3Max             *string     `json:"Skill3Max"`
	Skill4                *string     `json:"Skill4"`
	Skill4Min             *string     `json:"Skill4Min"`
	Skill4Max             *string     `json:"Skill4Max"`
	BidMax                *string     `json:"BidMax"`
	BornIn                *string     `json:"BornIn"`
	Continent             *string     `json:"Continent"`
	TSIMin                *string     `json:"TSIMin"`
	TSIMax                *string     `json:"TSIMax"`
	SalaryMin             *string     `json:"SalaryMin"`
	SalaryMax             *string     `json:"SalaryMax"`
	TransferCompareAvgMin *string     `json:"TransferCompareAvgMin"`
	TransferCompareAvgMax *string     `json:"TransferCompareAvgMax"`
	Specialties           []Specialty `json:"Specialties,omitempty"`
}

type FilterValue struct {
	Field FilterField
	Value string
}

// Values lists the set fields in form order. Specialties come last, one entry each.
func (f SearchFilter) Values() []FilterValue {
	ordered := []struct {
		field FilterField
		value *string
	}{
		{FieldAgeMin, f.AgeMin},
		{FieldAgeDaysMin, f.AgeDaysMin},
		{FieldAgeMax, f.AgeMax},
		{FieldAgeDaysMax, f.AgeDaysMax},
		{FieldSkill1, f.Skill1},
		{FieldSkill1Min, f.Skill1Min},
		{FieldSkill1Max, f.Skill1Max},
		{FieldSkill2, f.Skill2},
		{FieldSkill2Min, f.Skill2Min},
		{FieldSkill2Max, f.Skill2Max},
		{FieldSkill3, f.Skill3},
		{FieldSkill3Min, f.Skill3Min},
		{FieldSkill3Max, f.Skill3Max},
		{FieldSkill4, f.Skill4},
		{FieldSkill4Min, f.Skill4Min},
		{FieldSkill4Max, f.Skill4Max},
		{FieldBidMax, f.BidMax},
		{FieldBornIn, f.BornIn},
		{FieldContinent, f.Continent},
		{FieldTSIMin, f.TSIMin},
		{FieldTSIMax, f.TSIMax},
		{FieldSalaryMin, f.SalaryMin},
		{FieldSalaryMax, f.SalaryMax},
		{FieldTransferCompareAvgMin, f.TransferCompareAvgMin},
		{FieldTransferCompareAvgMax, f.TransferCompareAvgMax},
	}

	values := make([]FilterValue, 0, len(ordered)+len(f.Specialties))

	for _, item := range ordered {
		if item.value == nil || *item.value == "" {
			continue
		}

		values = append(values, FilterValue{Field: item.field, Value: *item.value})
	}

	for _, specialty := range f.Specialties {
		values = append(values, FilterValue{Field: FieldSpecialty, Value: string(specialty)})
	}

	return values
}

type SearchFilters struct {
	Filters []SearchFilter `json:"Filters"`
}

func DefaultSearchFilters() SearchFilters {
	s := func(v string) *string { return &v }

	return SearchFilters{
		Filters: []SearchFilter{
			{
				AgeMin:     s("21"),
				AgeDaysMin: s("0"),
				AgeMax:     s("27"),
				AgeDaysMax: s("111"),
				Skill1:     s("1"),
				Skill1Min:  s("9"),
				Skill1Max:  s("12"),
				BidMax:     s("100000"),
			},
			{
				AgeMin:     s("27"),
				AgeDaysMin: s("0"),
				AgeMax:     s("37"),
				AgeDaysMax: s("111"),
				Skill1:     s("3"),
				Skill1Min:  s("13"),
				Skill1Max:  s("16"),
				BidMax:     s("100000"),
			},
		},
	}
}

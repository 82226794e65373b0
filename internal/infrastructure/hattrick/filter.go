package hattrick

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"transfer_scanner/internal/domain/entity"
	"transfer_scanner/pkg/lox"
)

type ActionKind int

const (
	ActionSelect ActionKind = iota + 1
	ActionFill
	ActionToggle
)

func (k ActionKind) String() string {
	switch k {
	case ActionSelect:
		return "select"
	case ActionFill:
		return "fill"
	case ActionToggle:
		return "toggle"
	default:
		return "unknown"
	}
}

// FilterAction одно действие на форме поиска.
type FilterAction struct {
	Kind     ActionKind
	Selector string
	Value    string
}

type control struct {
	kind     ActionKind
	selector string
}

func selectControl(id string) control {
	return control{kind: ActionSelect, selector: "select[id='ctl00_ctl00_CPContent_CPMain_" + id + "']"}
}

func inputControl(id string) control {
	return control{kind: ActionFill, selector: "input[id='ctl00_ctl00_CPContent_CPMain_" + id + "']"}
}

//nolint:gochecknoglobals
var filterControls = map[entity.FilterField]control{
	entity.FieldAgeMin:                selectControl("ddlAgeMin"),
	entity.FieldAgeDaysMin:            selectControl("ddlAgeDaysMin"),
	entity.FieldAgeMax:                selectControl("ddlAgeMax"),
	entity.FieldAgeDaysMax:            selectControl("ddlAgeDaysMax"),
	entity.FieldSkill1:                selectControl("ddlSkill1"),
	entity.FieldSkill1Min:             selectControl("ddlSkill1Min"),
	entity.FieldSkill1Max:             selectControl("ddlSkill1Max"),
	entity.FieldSkill2:                selectControl("ddlSkill2"),
	entity.FieldSkill2Min:             selectControl("ddlSkill2Min"),
	entity.FieldSkill2Max:             selectControl("ddlSkill2Max"),
	entity.FieldSkill3:                selectControl("ddlSkill3"),
	entity.FieldSkill3Min:             selectControl("ddlSkill3Min"),
	entity.FieldSkill3Max:             selectControl("ddlSkill3Max"),
	entity.FieldSkill4:                selectControl("ddlSkill4"),
	entity.FieldSkill4Min:             selectControl("ddlSkill4Min"),
	entity.FieldSkill4Max:             selectControl("ddlSkill4Max"),
	entity.FieldBidMax:                inputControl("txtBidMax"),
	entity.FieldBornIn:                selectControl("ddlBornIn"),
	entity.FieldContinent:             selectControl("ddlContinent"),
	entity.FieldTSIMin:                inputControl("txtTSIMin_text"),
	entity.FieldTSIMax:                inputControl("txtTSIMax_text"),
	entity.FieldSalaryMin:             inputControl("txtSalaryMin"),
	entity.FieldSalaryMax:             inputControl("txtSalaryMax"),
	entity.FieldTransferCompareAvgMin: inputControl("txtTransferCompareAvgMin"),
	entity.FieldTransferCompareAvgMax: inputControl("txtTransferCompareAvgMax"),
}

// Specialty icons on the search form.
//
//nolint:gochecknoglobals
var specialtyIcons = map[entity.Specialty]int{
	entity.SpecialtyTechnical:     1,
	entity.SpecialtyQuick:         2,
	entity.SpecialtyPowerful:      3,
	entity.SpecialtyUnpredictable: 4,
	entity.SpecialtyHead:          5,
	entity.SpecialtyResilient:     6,
	entity.SpecialtySupport:       8,
}

// Actions converts a filter into form actions in form order.
func Actions(filter entity.SearchFilter) ([]FilterAction, error) {
	return lox.MapErr(filter.Values(), actionFor)
}

func actionFor(v entity.FilterValue) (FilterAction, error) {
	if v.Field == entity.FieldSpecialty {
		icon, ok := specialtyIcons[entity.Specialty(v.Value)]
		if !ok {
			return FilterAction{}, fmt.Errorf("unknown specialty %q", v.Value)
		}

		return FilterAction{
			Kind:     ActionToggle,
			Selector: fmt.Sprintf("label:has(i.icon-speciality-%d)", icon),
			Value:    v.Value,
		}, nil
	}

	c, ok := filterControls[v.Field]
	if !ok {
		return FilterAction{}, fmt.Errorf("no control for field %s", v.Field)
	}

	return FilterAction{Kind: c.kind, Selector: c.selector, Value: v.Value}, nil
}

// Describe renders a filter for logs: "AgeMin=21 AgeMax=27 ...".
func Describe(filter entity.SearchFilter) string {
	return strings.Join(lo.Map(filter.Values(), func(v entity.FilterValue, _ int) string {
		return string(v.Field) + "=" + v.Value
	}), " ")
}

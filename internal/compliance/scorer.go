// Package compliance scores extracted record sets against the reporting
// schema's field-coverage requirements.
package compliance

import (
	"fmt"
	"math"

	"github.com/ofertomat/ofertomat/internal/parser"
)

const (
	criticalWeight    = 3
	recommendedWeight = 2

	// minScore is the regulator's documented minimum field coverage.
	minScore = 77

	// missingIdentifierWarnShare is the share of records without an
	// identifier above which a warning is raised.
	missingIdentifierWarnShare = 0.10
)

// criticalFields block the feed when absent from the whole dataset.
var criticalFields = []string{
	parser.FieldPropertyNumber,
	parser.FieldTotalPrice,
	parser.FieldArea,
	parser.FieldPricePerM2,
	parser.FieldWojewodztwo,
	parser.FieldPowiat,
	parser.FieldGmina,
}

// recommendedFields improve the score but never block.
var recommendedFields = []string{
	parser.FieldPropertyType,
	parser.FieldStatus,
	parser.FieldUlica,
	parser.FieldKodPocztowy,
	parser.FieldRooms,
	parser.FieldFloor,
	parser.FieldConstructionYear,
	parser.FieldEnergyClass,
	parser.FieldFirstOfferDate,
}

// Report is the outcome of scoring one record set. Scoring is orthogonal to
// parse success: a cleanly parsed file can still fail compliance.
type Report struct {
	Score              int      `json:"score"`
	Valid              bool     `json:"valid"`
	Errors             []string `json:"errors"`
	Warnings           []string `json:"warnings"`
	MissingCritical    []string `json:"missingCritical"`
	MissingRecommended []string `json:"missingRecommended"`
}

// Score evaluates field coverage across the record set. A field counts as
// covered when any record in the set has it populated.
func Score(records []parser.PropertyRecord) *Report {
	report := &Report{}

	earned, possible := 0, 0

	for _, field := range criticalFields {
		possible += criticalWeight
		if anyPopulated(records, field) {
			earned += criticalWeight
		} else {
			report.MissingCritical = append(report.MissingCritical, field)
			report.Errors = append(report.Errors,
				fmt.Sprintf("critical field %s is missing from every record", field))
		}
	}

	for _, field := range recommendedFields {
		possible += recommendedWeight
		if anyPopulated(records, field) {
			earned += recommendedWeight
		} else {
			report.MissingRecommended = append(report.MissingRecommended, field)
		}
	}

	report.Score = int(math.Round(float64(earned) / float64(possible) * 100))

	checkValueSanity(records, report)
	checkIdentifierCoverage(records, report)

	report.Valid = len(report.Errors) == 0 && report.Score >= minScore
	return report
}

// checkValueSanity flags records carrying a non-positive price or area.
// A present-but-impossible value is a hard error, not a coverage gap.
func checkValueSanity(records []parser.PropertyRecord, report *Report) {
	badPrices, badAreas := 0, 0
	for i := range records {
		r := &records[i]
		for _, price := range []*float64{r.PricePerM2, r.TotalPrice, r.FinalPrice} {
			if price != nil && *price <= 0 {
				badPrices++
				break
			}
		}
		if r.Area != nil && *r.Area <= 0 {
			badAreas++
		}
	}
	if badPrices > 0 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("%d records carry a non-positive price", badPrices))
	}
	if badAreas > 0 {
		report.Errors = append(report.Errors,
			fmt.Sprintf("%d records carry a non-positive area", badAreas))
	}
}

func checkIdentifierCoverage(records []parser.PropertyRecord, report *Report) {
	if len(records) == 0 {
		return
	}
	missing := 0
	for i := range records {
		if !populated(&records[i], parser.FieldPropertyNumber) {
			missing++
		}
	}
	if float64(missing)/float64(len(records)) > missingIdentifierWarnShare {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"%d of %d records have no property identifier", missing, len(records)))
	}
}

func anyPopulated(records []parser.PropertyRecord, field string) bool {
	for i := range records {
		if populated(&records[i], field) {
			return true
		}
	}
	return false
}

func populated(r *parser.PropertyRecord, field string) bool {
	switch field {
	case parser.FieldPropertyNumber:
		return r.PropertyNumber != nil && *r.PropertyNumber != ""
	case parser.FieldPropertyType:
		return r.PropertyType != nil && *r.PropertyType != ""
	case parser.FieldArea:
		return r.Area != nil
	case parser.FieldPricePerM2:
		return r.PricePerM2 != nil
	case parser.FieldTotalPrice:
		return r.TotalPrice != nil
	case parser.FieldStatus:
		return r.Status != nil && *r.Status != ""
	case parser.FieldWojewodztwo:
		return r.Wojewodztwo != nil && *r.Wojewodztwo != ""
	case parser.FieldPowiat:
		return r.Powiat != nil && *r.Powiat != ""
	case parser.FieldGmina:
		return r.Gmina != nil && *r.Gmina != ""
	case parser.FieldUlica:
		return r.Ulica != nil && *r.Ulica != ""
	case parser.FieldKodPocztowy:
		return r.KodPocztowy != nil && *r.KodPocztowy != ""
	case parser.FieldRooms:
		return r.Rooms != nil
	case parser.FieldFloor:
		return r.Floor != nil
	case parser.FieldConstructionYear:
		return r.ConstructionYear != nil
	case parser.FieldEnergyClass:
		return r.EnergyClass != nil && *r.EnergyClass != ""
	case parser.FieldFirstOfferDate:
		return r.FirstOfferDate != nil && *r.FirstOfferDate != ""
	default:
		return false
	}
}

package parser

import (
	"fmt"
	"strings"
)

// Sold-unit markers source systems write into price cells. A row carrying
// one of these in any mapped price column must never reach the output feed.
var soldMarkers = []string{"x", "#value!"}

// extractor walks data rows for one parse invocation. All accounting lives
// on this value, so concurrent parses cannot interleave their diagnostics.
type extractor struct {
	headers     []string
	mapping     map[string]string
	headerIndex map[string]int
	format      Format

	records   []PropertyRecord
	stats     ValidationStats
	validRows int
}

func newExtractor(table *RawTable, mapping map[string]string, format Format) *extractor {
	index := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}
	return &extractor{
		headers:     table.Headers,
		mapping:     mapping,
		headerIndex: index,
		format:      format,
	}
}

// extractRows applies the ordered row gates. Every row lands in exactly one
// stats bucket, and every discarded row leaves one diagnostic entry.
func (e *extractor) extractRows(rows [][]string) {
	for i, row := range rows {
		// 1-based source line; the header occupies line 1.
		line := i + 2
		e.extractRow(line, row)
	}
}

func (e *extractor) extractRow(line int, row []string) {
	if rowIsBlank(row) {
		e.stats.EmptyRows++
		e.discard(line, "empty row", 0)
		return
	}

	if len(row)*2 < len(e.headers) {
		e.stats.TooFewColumns++
		e.discard(line, fmt.Sprintf("row has %d of %d columns", len(row), len(e.headers)), len(row))
		return
	}

	e.validRows++

	if header, ok := e.soldMarkerColumn(row); ok {
		e.stats.SoldProperties++
		e.discard(line, fmt.Sprintf("sold unit marker in %q", header), 0)
		return
	}

	record := e.buildRecord(row)

	if record.Status != nil && *record.Status == StatusSold {
		// A textual sold status is as binding as a price marker.
		e.stats.SoldProperties++
		e.discard(line, "status marks unit as sold", 0)
		return
	}

	e.inferStatus(&record)

	if !hasCriticalData(&record) {
		e.stats.InvalidCriticalData++
		e.discard(line, "no identifier, area or price", 0)
		return
	}

	e.stats.SuccessfullyParsed++
	e.records = append(e.records, record)
}

// discard records the audit-trail entry for one excluded row. Entries are
// never capped: a bulk import of thousands of bad rows must stay inspectable.
func (e *extractor) discard(line int, reason string, columns int) {
	e.stats.Details = append(e.stats.Details, RowIssue{
		Row:     line,
		Reason:  reason,
		Columns: columns,
	})
}

// soldMarkerColumn reports the first mapped price column holding a sold
// marker, if any.
func (e *extractor) soldMarkerColumn(row []string) (string, bool) {
	for _, field := range priceFields {
		header, ok := e.mapping[field]
		if !ok {
			continue
		}
		cell := strings.TrimSpace(e.cell(row, header))
		for _, marker := range soldMarkers {
			if strings.EqualFold(cell, marker) {
				return header, true
			}
		}
	}
	return "", false
}

// buildRecord promotes mapped cells onto typed fields and snapshots the full
// raw row, mapped or not.
func (e *extractor) buildRecord(row []string) PropertyRecord {
	record := PropertyRecord{Raw: make(map[string]string, len(e.headers))}
	for _, header := range e.headers {
		record.Raw[header] = e.cell(row, header)
	}

	for field, header := range e.mapping {
		raw := strings.TrimSpace(e.cell(row, header))
		if raw == "" {
			continue
		}
		e.applyField(&record, field, raw)
	}

	return record
}

// applyField coerces one raw cell into its typed slot. A numeric cell that
// does not parse is left unset; the raw value is still in Raw.
func (e *extractor) applyField(record *PropertyRecord, field, raw string) {
	switch field {
	case FieldPropertyNumber:
		record.PropertyNumber = strPtr(raw)
	case FieldPropertyType:
		record.PropertyType = strPtr(raw)
	case FieldArea:
		record.Area = numPtr(raw)
	case FieldPricePerM2:
		record.PricePerM2 = numPtr(raw)
	case FieldTotalPrice:
		record.TotalPrice = numPtr(raw)
	case FieldFinalPrice:
		record.FinalPrice = numPtr(raw)
	case FieldFinalPricePerM2:
		record.FinalPricePerM2 = numPtr(raw)
	case FieldStatus:
		if status, ok := statusFromText(raw); ok {
			record.Status = strPtr(status)
		}
	case FieldWojewodztwo:
		record.Wojewodztwo = strPtr(raw)
	case FieldPowiat:
		record.Powiat = strPtr(raw)
	case FieldGmina:
		record.Gmina = strPtr(raw)
	case FieldMiejscowosc:
		record.Miejscowosc = strPtr(raw)
	case FieldDzielnica:
		record.Dzielnica = strPtr(raw)
	case FieldUlica:
		record.Ulica = strPtr(raw)
	case FieldNrBudynku:
		record.NrBudynku = strPtr(raw)
	case FieldKodPocztowy:
		record.KodPocztowy = strPtr(raw)
	case FieldRooms:
		record.Rooms = intPtr(raw)
	case FieldFloor:
		record.Floor = intPtr(raw)
	case FieldConstructionYear:
		record.ConstructionYear = intPtr(raw)
	case FieldEnergyClass:
		record.EnergyClass = strPtr(raw)
	case FieldFirstOfferDate:
		record.FirstOfferDate = strPtr(raw)
	}
}

// inferStatus fills a missing status from price signals. Vendor exports
// rarely carry an explicit status column; a unit with a valid per-m2 price
// is on offer.
func (e *extractor) inferStatus(record *PropertyRecord) {
	if record.Status != nil || e.format != FormatVendorExport {
		return
	}
	if record.PricePerM2 != nil && *record.PricePerM2 > 0 {
		record.Status = strPtr(StatusAvailable)
	}
}

// hasCriticalData is the final gate: at least an identifier, a positive
// area or a positive price.
func hasCriticalData(record *PropertyRecord) bool {
	if record.PropertyNumber != nil && strings.TrimSpace(*record.PropertyNumber) != "" {
		return true
	}
	if record.Area != nil && *record.Area > 0 {
		return true
	}
	for _, price := range []*float64{record.PricePerM2, record.TotalPrice, record.FinalPrice} {
		if price != nil && *price > 0 {
			return true
		}
	}
	return false
}

func (e *extractor) cell(row []string, header string) string {
	idx, ok := e.headerIndex[header]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// statusFromText maps the status vocabulary seen across exports onto the
// canonical values. Matching is containment-based and diacritic-tolerant.
func statusFromText(raw string) (string, bool) {
	text := normalizeHeader(raw)
	switch {
	// "w sprzedazy" (on sale) must win over the "sprzeda" sold stem.
	case strings.Contains(text, "w sprzedazy"), strings.Contains(text, "dostepn"),
		strings.Contains(text, "woln"), strings.Contains(text, "avail"):
		return StatusAvailable, true
	case text == "x", strings.Contains(text, "sprzeda"), strings.Contains(text, "sold"):
		return StatusSold, true
	case strings.Contains(text, "rezerw"), strings.Contains(text, "reserv"):
		return StatusReserved, true
	}
	return "", false
}

func strPtr(s string) *string { return &s }

func numPtr(raw string) *float64 {
	if v, ok := parseLocaleNumber(raw); ok {
		return &v
	}
	return nil
}

func intPtr(raw string) *int {
	if v, ok := parseLocaleNumber(raw); ok {
		n := int(v)
		return &n
	}
	return nil
}

package parser

// DeriveFields fills any of area, per-m2 price and total price that can be
// computed from the other two. Existing values are never overwritten, and a
// zero or negative denominator leaves the field unset instead of producing
// NaN or infinity.
func DeriveFields(record *PropertyRecord) {
	if record.Area == nil && record.TotalPrice != nil && record.PricePerM2 != nil &&
		*record.PricePerM2 > 0 {
		area := round2(*record.TotalPrice / *record.PricePerM2)
		record.Area = &area
	}

	if record.PricePerM2 == nil && record.TotalPrice != nil && record.Area != nil &&
		*record.Area > 0 {
		price := round2(*record.TotalPrice / *record.Area)
		record.PricePerM2 = &price
	}

	if record.TotalPrice == nil && record.PricePerM2 != nil && record.Area != nil &&
		*record.Area > 0 {
		total := round2(*record.PricePerM2 * *record.Area)
		record.TotalPrice = &total
	}
}

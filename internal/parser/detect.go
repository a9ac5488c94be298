package parser

import (
	"fmt"
	"strings"
)

// Signature phrases, one list per format family. A header counts as a hit
// when it contains the signature or the signature contains it, after
// normalization. Ministerial signatures are the official legal wording;
// vendor signatures come from the sales-tool exports we have seen in the
// wild; custom signatures are the generic names ad-hoc sheets use.
var (
	ministerialSignatures = []string{
		"cena 1 m2 powierzchni uzytkowej",
		"cena m2 powierzchni uzytkowej",
		"nr lokalu lub domu jednorodzinnego nadany przez dewelopera",
		"cena lokalu mieszkalnego lub domu jednorodzinnego",
		"data od ktorej cena obowiazuje",
		"data od ktorej obowiazuje cena",
		"powierzchnia uzytkowa lokalu",
		"rodzaj pomieszczen przynaleznych",
		"cena pomieszczen przynaleznych",
		"inne swiadczenia pieniezne",
		"nr wpisu do ceidg",
		"adres strony internetowej na ktorej udostepniony jest prospekt informacyjny",
		"rodzaj nieruchomosci lokal mieszkalny dom jednorodzinny",
	}

	vendorSignatures = []string{
		"symbol lokalu",
		"id inwestycji",
		"numer oferty",
		"cena ofertowa brutto",
		"status sprzedazy",
		"termin oddania",
		"id wewnetrzny",
		"klatka",
		"etap inwestycji",
		"data rezerwacji",
		"stanowisko postojowe",
	}

	customSignatures = []string{
		"cena",
		"powierzchnia",
		"metraz",
		"pokoje",
		"pietro",
		"numer",
		"status",
		"adres",
		"miasto",
	}
)

// DetectFormat classifies a header row as one of the known format families.
// The confidence is capped at 95: header wording alone is never proof. The
// result is advisory metadata; mapping and extraction proceed regardless.
func DetectFormat(headers []string) (Format, float64, string) {
	normalized := make([]string, 0, len(headers))
	for _, h := range headers {
		normalized = append(normalized, normalizeHeader(h))
	}

	ministerial := countSignatureHits(normalized, ministerialSignatures)
	vendor := countSignatureHits(normalized, vendorSignatures)
	custom := countSignatureHits(normalized, customSignatures)

	switch {
	case ministerial >= 4:
		confidence := capConfidence(ratio(ministerial, len(ministerialSignatures))*100, 95)
		return FormatMinisterial, confidence, fmt.Sprintf(
			"%d of %d ministerial signature phrases present", ministerial, len(ministerialSignatures))
	case vendor >= 4:
		confidence := capConfidence(ratio(vendor, len(vendorSignatures))*100, 95)
		return FormatVendorExport, confidence, fmt.Sprintf(
			"%d of %d vendor signature phrases present", vendor, len(vendorSignatures))
	case ministerial >= 2 && vendor < 2:
		return FormatMinisterial, capConfidence(ratio(ministerial, len(ministerialSignatures))*100, 75),
			fmt.Sprintf("%d ministerial signature phrases present", ministerial)
	case vendor >= 2:
		return FormatVendorExport, capConfidence(ratio(vendor, len(vendorSignatures))*100, 75),
			fmt.Sprintf("%d vendor signature phrases present", vendor)
	default:
		confidence := capConfidence(ratio(custom, len(customSignatures))*100, 95)
		if confidence < 50 {
			confidence = 50
		}
		return FormatCustom, confidence, fmt.Sprintf(
			"no schema signatures; %d generic field names present", custom)
	}
}

func countSignatureHits(normalizedHeaders, signatures []string) int {
	hits := 0
	for _, sig := range signatures {
		for _, h := range normalizedHeaders {
			if h == "" {
				continue
			}
			if strings.Contains(h, sig) || strings.Contains(sig, h) {
				hits++
				break
			}
		}
	}
	return hits
}

func ratio(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func capConfidence(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

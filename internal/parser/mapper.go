package parser

import "sort"

const (
	// mappingThreshold is the minimum score for a header to bind a field.
	mappingThreshold = 0.6
	// suggestionThreshold is the looser bar for non-binding suggestions on
	// fields that failed to map.
	suggestionThreshold = 0.3
	// maxAlternates caps the runner-up candidates kept per mapped field.
	maxAlternates = 3
	// minMappedFields mapped canonical fields required for a usable parse.
	minMappedFields = 3
)

// MappingResult carries the full outcome of column mapping.
type MappingResult struct {
	Mapping     FieldMapping
	Unmapped    []string
	Suggestions map[string][]HeaderMatch
}

// MapColumns fuzzy-matches the header row against the field catalog. The
// result is deterministic for identical input: the catalog is walked in
// declaration order and ties resolve to the leftmost header.
func MapColumns(headers []string) MappingResult {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	result := MappingResult{
		Mapping: FieldMapping{
			Columns:    make(map[string]string),
			Alternates: make(map[string][]HeaderMatch),
		},
		Suggestions: make(map[string][]HeaderMatch),
	}

	var scoreSum float64
	var mapped int

	for _, entry := range fieldCatalog {
		candidates := scoreField(entry, headers, normalized)

		var binding []HeaderMatch
		for _, c := range candidates {
			if c.Score > mappingThreshold {
				binding = append(binding, c)
			}
		}

		if len(binding) == 0 {
			result.Unmapped = append(result.Unmapped, entry.Field)
			var loose []HeaderMatch
			for _, c := range candidates {
				if c.Score > suggestionThreshold {
					loose = append(loose, c)
				}
			}
			if len(loose) > maxAlternates {
				loose = loose[:maxAlternates]
			}
			if len(loose) > 0 {
				result.Suggestions[entry.Field] = loose
			}
			continue
		}

		winner := binding[0]
		result.Mapping.Columns[entry.Field] = winner.Header
		scoreSum += winner.Score
		mapped++

		if len(binding) > 1 {
			alternates := binding[1:]
			if len(alternates) > maxAlternates {
				alternates = alternates[:maxAlternates]
			}
			result.Mapping.Alternates[entry.Field] = alternates
		}
	}

	if mapped > 0 {
		result.Mapping.Confidence = scoreSum / float64(mapped)
	}

	return result
}

// scoreField rates every header against every alias of one catalog entry and
// returns the headers sorted by their best score, descending. Sorting is
// stable so equal scores keep header order.
func scoreField(entry FieldPattern, headers, normalized []string) []HeaderMatch {
	best := make([]float64, len(headers))
	for _, pattern := range entry.Patterns {
		np := normalizeHeader(pattern)
		for i, h := range normalized {
			if h == "" {
				continue
			}
			if score := matchScore(h, np); score > best[i] {
				best[i] = score
			}
		}
	}

	matches := make([]HeaderMatch, 0, len(headers))
	for i, score := range best {
		if score > 0 {
			matches = append(matches, HeaderMatch{Header: headers[i], Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

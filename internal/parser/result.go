// Package parser turns raw listing exports (delimited text or spreadsheets)
// into canonical property records ready for compliance reporting.
package parser

// Format classifies the source layout of an uploaded file.
type Format string

const (
	// FormatMinisterial is the official ministry-published column layout.
	FormatMinisterial Format = "ministerial"
	// FormatVendorExport is a third-party sales tool export layout.
	FormatVendorExport Format = "vendor-export"
	// FormatCustom is anything else: ad-hoc user spreadsheets.
	FormatCustom Format = "custom"
)

// Status values a listing can carry after extraction.
const (
	StatusAvailable = "available"
	StatusReserved  = "reserved"
	StatusSold      = "sold"
)

// PropertyRecord is one extracted listing. Canonical fields are optional;
// Raw always carries the full original header -> cell mapping so nothing is
// lost for columns that were never promoted to a typed field.
type PropertyRecord struct {
	PropertyNumber  *string
	PropertyType    *string
	Area            *float64
	PricePerM2      *float64
	TotalPrice      *float64
	FinalPrice      *float64
	FinalPricePerM2 *float64
	Status          *string

	Wojewodztwo *string
	Powiat      *string
	Gmina       *string
	Miejscowosc *string
	Dzielnica   *string
	Ulica       *string
	NrBudynku   *string
	KodPocztowy *string

	Rooms            *int
	Floor            *int
	ConstructionYear *int
	EnergyClass      *string
	FirstOfferDate   *string

	Raw map[string]string
}

// HeaderMatch is a scored candidate header for a canonical field.
type HeaderMatch struct {
	Header string  `json:"header"`
	Score  float64 `json:"score"`
}

// FieldMapping is the outcome of column mapping: one source header per
// canonical field, plus runner-up candidates for interactive correction.
type FieldMapping struct {
	Columns    map[string]string        `json:"columns"`
	Alternates map[string][]HeaderMatch `json:"alternates,omitempty"`
	Confidence float64                  `json:"confidence"`
}

// RowIssue records why a single input row was discarded.
type RowIssue struct {
	Row     int    `json:"row"`
	Reason  string `json:"reason"`
	Columns int    `json:"columns,omitempty"`
}

// ValidationStats partitions every data row of a parse run into exactly one
// bucket. Details holds one entry per discarded row.
type ValidationStats struct {
	EmptyRows           int        `json:"emptyRows"`
	TooFewColumns       int        `json:"tooFewColumns"`
	SoldProperties      int        `json:"soldProperties"`
	InvalidCriticalData int        `json:"invalidCriticalData"`
	SuccessfullyParsed  int        `json:"successfullyParsed"`
	Details             []RowIssue `json:"details"`
}

// ParseResult is the full outcome of one parse invocation. The engine keeps
// no reference to it after returning.
type ParseResult struct {
	Success bool             `json:"success"`
	Data    []PropertyRecord `json:"-"`

	Mappings    map[string]string        `json:"mappings"`
	Alternates  map[string][]HeaderMatch `json:"alternates,omitempty"`
	Suggestions map[string][]HeaderMatch `json:"suggestions,omitempty"`

	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`

	Confidence float64 `json:"confidence"`

	DetectedFormat   Format  `json:"detectedFormat"`
	FormatConfidence float64 `json:"formatConfidence"`
	FormatDetails    string  `json:"formatDetails"`

	TotalRows int `json:"totalRows"`
	ValidRows int `json:"validRows"`

	ValidationStats ValidationStats `json:"validationStats"`
}

// Package feed serializes accepted records into the regulator's reporting
// files: a semicolon-delimited CSV, an XML document, and MD5 checksum
// sidecars. Output is deterministic for identical input so feeds can be
// diffed and re-submitted byte-for-byte.
package feed

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/ofertomat/ofertomat/internal/parser"
)

// Metadata identifies the reporting party on the feed.
type Metadata struct {
	DeveloperName string
	DeveloperNIP  string
	ProjectName   string
	ReportDate    time.Time
}

// Bundle is one complete feed submission.
type Bundle struct {
	CSV         []byte
	XML         []byte
	CSVChecksum string
	XMLChecksum string
}

var csvHeader = []string{
	"Nr lokalu", "Rodzaj nieruchomości", "Województwo", "Powiat", "Gmina",
	"Miejscowość", "Ulica", "Kod pocztowy", "Powierzchnia użytkowa [m2]",
	"Cena za m2 [zł]", "Cena całkowita [zł]", "Cena ostateczna [zł]", "Status",
}

// Build produces the full feed bundle for a record set.
func Build(records []parser.PropertyRecord, meta Metadata) (*Bundle, error) {
	ordered := orderRecords(records)

	csvData, err := buildCSV(ordered)
	if err != nil {
		return nil, fmt.Errorf("build csv feed: %w", err)
	}

	xmlData, err := buildXML(ordered, meta)
	if err != nil {
		return nil, fmt.Errorf("build xml feed: %w", err)
	}

	return &Bundle{
		CSV:         csvData,
		XML:         xmlData,
		CSVChecksum: checksum(csvData),
		XMLChecksum: checksum(xmlData),
	}, nil
}

// orderRecords sorts by property number, then area, so ordering never
// depends on the upload's row order.
func orderRecords(records []parser.PropertyRecord) []parser.PropertyRecord {
	ordered := make([]parser.PropertyRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := strOrEmpty(ordered[i].PropertyNumber), strOrEmpty(ordered[j].PropertyNumber)
		if a != b {
			return a < b
		}
		return floatOrZero(ordered[i].Area) < floatOrZero(ordered[j].Area)
	})
	return ordered
}

func buildCSV(records []parser.PropertyRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for i := range records {
		r := &records[i]
		row := []string{
			strOrEmpty(r.PropertyNumber),
			strOrEmpty(r.PropertyType),
			strOrEmpty(r.Wojewodztwo),
			strOrEmpty(r.Powiat),
			strOrEmpty(r.Gmina),
			strOrEmpty(r.Miejscowosc),
			strOrEmpty(r.Ulica),
			strOrEmpty(r.KodPocztowy),
			formatAmount(r.Area),
			formatAmount(r.PricePerM2),
			formatAmount(r.TotalPrice),
			formatAmount(r.FinalPrice),
			strOrEmpty(r.Status),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

type xmlFeed struct {
	XMLName   xml.Name     `xml:"Raport"`
	Developer xmlDeveloper `xml:"Deweloper"`
	Date      string       `xml:"DataRaportu"`
	Units     []xmlUnit    `xml:"Oferty>Oferta"`
}

type xmlDeveloper struct {
	Name        string `xml:"Nazwa"`
	NIP         string `xml:"NIP"`
	ProjectName string `xml:"Inwestycja"`
}

type xmlUnit struct {
	Number      string `xml:"NrLokalu"`
	Kind        string `xml:"RodzajNieruchomosci,omitempty"`
	Wojewodztwo string `xml:"Wojewodztwo,omitempty"`
	Powiat      string `xml:"Powiat,omitempty"`
	Gmina       string `xml:"Gmina,omitempty"`
	Miejscowosc string `xml:"Miejscowosc,omitempty"`
	Ulica       string `xml:"Ulica,omitempty"`
	KodPocztowy string `xml:"KodPocztowy,omitempty"`
	Area        string `xml:"PowierzchniaUzytkowa,omitempty"`
	PricePerM2  string `xml:"CenaM2,omitempty"`
	TotalPrice  string `xml:"CenaCalkowita,omitempty"`
	FinalPrice  string `xml:"CenaOstateczna,omitempty"`
	Status      string `xml:"Status,omitempty"`
}

func buildXML(records []parser.PropertyRecord, meta Metadata) ([]byte, error) {
	doc := xmlFeed{
		Developer: xmlDeveloper{
			Name:        meta.DeveloperName,
			NIP:         meta.DeveloperNIP,
			ProjectName: meta.ProjectName,
		},
		Date: meta.ReportDate.Format("2006-01-02"),
	}
	for i := range records {
		r := &records[i]
		doc.Units = append(doc.Units, xmlUnit{
			Number:      strOrEmpty(r.PropertyNumber),
			Kind:        strOrEmpty(r.PropertyType),
			Wojewodztwo: strOrEmpty(r.Wojewodztwo),
			Powiat:      strOrEmpty(r.Powiat),
			Gmina:       strOrEmpty(r.Gmina),
			Miejscowosc: strOrEmpty(r.Miejscowosc),
			Ulica:       strOrEmpty(r.Ulica),
			KodPocztowy: strOrEmpty(r.KodPocztowy),
			Area:        formatAmount(r.Area),
			PricePerM2:  formatAmount(r.PricePerM2),
			TotalPrice:  formatAmount(r.TotalPrice),
			FinalPrice:  formatAmount(r.FinalPrice),
			Status:      strOrEmpty(r.Status),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

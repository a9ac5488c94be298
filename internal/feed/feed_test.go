package feed

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ofertomat/ofertomat/internal/parser"
)

func strp(s string) *string { return &s }
func fp(v float64) *float64 { return &v }

func sampleRecords() []parser.PropertyRecord {
	return []parser.PropertyRecord{
		{
			PropertyNumber: strp("B.2.05"),
			Area:           fp(61.2),
			PricePerM2:     fp(9100),
			TotalPrice:     fp(556920),
			Status:         strp(parser.StatusAvailable),
			Gmina:          strp("Warszawa"),
		},
		{
			PropertyNumber: strp("A.1.01"),
			Area:           fp(50.5),
			PricePerM2:     fp(9000),
			TotalPrice:     fp(454500),
			Status:         strp(parser.StatusReserved),
			Gmina:          strp("Warszawa"),
		},
	}
}

func sampleMeta() Metadata {
	return Metadata{
		DeveloperName: "Deweloper Testowy Sp. z o.o.",
		DeveloperNIP:  "1234567890",
		ProjectName:   "Osiedle Przykładowe",
		ReportDate:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildCSV(t *testing.T) {
	bundle, err := Build(sampleRecords(), sampleMeta())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(bundle.CSV), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "Nr lokalu;"))
	// Records are ordered by property number, not upload order.
	assert.True(t, strings.HasPrefix(lines[1], "A.1.01;"))
	assert.True(t, strings.HasPrefix(lines[2], "B.2.05;"))
	assert.Contains(t, lines[1], "50.50")
	assert.Contains(t, lines[1], "454500.00")
}

func TestBuildXML(t *testing.T) {
	bundle, err := Build(sampleRecords(), sampleMeta())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(bundle.XML), xml.Header))

	var doc struct {
		XMLName   xml.Name `xml:"Raport"`
		Developer struct {
			Name string `xml:"Nazwa"`
			NIP  string `xml:"NIP"`
		} `xml:"Deweloper"`
		Date  string `xml:"DataRaportu"`
		Units []struct {
			Number string `xml:"NrLokalu"`
			Area   string `xml:"PowierzchniaUzytkowa"`
		} `xml:"Oferty>Oferta"`
	}
	require.NoError(t, xml.Unmarshal(bundle.XML, &doc))

	assert.Equal(t, "1234567890", doc.Developer.NIP)
	assert.Equal(t, "2026-03-01", doc.Date)
	require.Len(t, doc.Units, 2)
	assert.Equal(t, "A.1.01", doc.Units[0].Number)
	assert.Equal(t, "50.50", doc.Units[0].Area)
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := Build(sampleRecords(), sampleMeta())
	require.NoError(t, err)
	second, err := Build(sampleRecords(), sampleMeta())
	require.NoError(t, err)

	assert.Equal(t, first.CSV, second.CSV)
	assert.Equal(t, first.XML, second.XML)
	assert.Equal(t, first.CSVChecksum, second.CSVChecksum)
	assert.Equal(t, first.XMLChecksum, second.XMLChecksum)
}

func TestChecksumsMatchContent(t *testing.T) {
	bundle, err := Build(sampleRecords(), sampleMeta())
	require.NoError(t, err)

	assert.Equal(t, checksum(bundle.CSV), bundle.CSVChecksum)
	assert.Equal(t, checksum(bundle.XML), bundle.XMLChecksum)
	assert.Len(t, bundle.CSVChecksum, 32)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	_, err := Build(records, sampleMeta())
	require.NoError(t, err)

	// Input order is untouched; only the feed is sorted.
	assert.Equal(t, "B.2.05", *records[0].PropertyNumber)
}

func TestBuildEmptySet(t *testing.T) {
	bundle, err := Build(nil, sampleMeta())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(bundle.CSV), "\n"), "\n")
	assert.Len(t, lines, 1)
}

func TestMissingFieldsSerializeEmpty(t *testing.T) {
	bundle, err := Build([]parser.PropertyRecord{{PropertyNumber: strp("C1")}}, sampleMeta())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(bundle.CSV), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "C1;;;;;;;;;;;;", lines[1])
}

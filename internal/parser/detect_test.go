package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	t.Run("ministerial schema", func(t *testing.T) {
		headers := []string{
			"Nr lokalu lub domu jednorodzinnego nadany przez dewelopera",
			"Cena 1 m² powierzchni użytkowej",
			"Cena lokalu mieszkalnego lub domu jednorodzinnego",
			"Data od której cena obowiązuje",
			"Powierzchnia użytkowa lokalu",
		}
		format, confidence, details := DetectFormat(headers)
		assert.Equal(t, FormatMinisterial, format)
		assert.Greater(t, confidence, 0.0)
		assert.LessOrEqual(t, confidence, 95.0)
		assert.Contains(t, details, "ministerial")
	})

	t.Run("vendor export", func(t *testing.T) {
		headers := []string{
			"Symbol lokalu", "ID inwestycji", "Cena ofertowa brutto",
			"Status sprzedaży", "Termin oddania",
		}
		format, confidence, _ := DetectFormat(headers)
		assert.Equal(t, FormatVendorExport, format)
		assert.Greater(t, confidence, 0.0)
		assert.LessOrEqual(t, confidence, 95.0)
	})

	t.Run("weak ministerial evidence is capped at 75", func(t *testing.T) {
		headers := []string{
			"Powierzchnia użytkowa lokalu",
			"Inne świadczenia pieniężne",
			"Lp",
		}
		format, confidence, _ := DetectFormat(headers)
		assert.Equal(t, FormatMinisterial, format)
		assert.LessOrEqual(t, confidence, 75.0)
	})

	t.Run("generic headers fall back to custom with a floor of 50", func(t *testing.T) {
		headers := []string{"Metraż", "Pokoje", "Piętro", "Miasto"}
		format, confidence, _ := DetectFormat(headers)
		assert.Equal(t, FormatCustom, format)
		assert.GreaterOrEqual(t, confidence, 50.0)
	})

	t.Run("custom confidence never exceeds 95", func(t *testing.T) {
		// Every generic signature hits, without touching the schema ones.
		headers := []string{
			"Cena najmu", "Powierzchnia całkowita", "Metraż", "Pokoje",
			"Piętro", "Numer działki", "Status oferty", "Adres obiektu", "Miasto",
		}
		format, confidence, _ := DetectFormat(headers)
		assert.Equal(t, FormatCustom, format)
		assert.LessOrEqual(t, confidence, 95.0)
		assert.GreaterOrEqual(t, confidence, 50.0)
	})

	t.Run("empty header row is custom", func(t *testing.T) {
		format, confidence, _ := DetectFormat(nil)
		assert.Equal(t, FormatCustom, format)
		assert.Equal(t, 50.0, confidence)
	})

	t.Run("classification is deterministic", func(t *testing.T) {
		headers := []string{"Symbol lokalu", "ID inwestycji", "Klatka", "Data rezerwacji"}
		f1, c1, d1 := DetectFormat(headers)
		f2, c2, d2 := DetectFormat(headers)
		assert.Equal(t, f1, f2)
		assert.Equal(t, c1, c2)
		assert.Equal(t, d1, d2)
	})
}

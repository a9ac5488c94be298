package parser

// Canonical field names. The typed subset below is promoted onto
// PropertyRecord; everything else still gets mapped and survives in Raw.
const (
	FieldPropertyNumber  = "property_number"
	FieldPropertyType    = "property_type"
	FieldArea            = "area"
	FieldPricePerM2      = "price_per_m2"
	FieldTotalPrice      = "total_price"
	FieldFinalPrice      = "final_price"
	FieldFinalPricePerM2 = "final_price_per_m2"
	FieldStatus          = "status"

	FieldWojewodztwo = "wojewodztwo"
	FieldPowiat      = "powiat"
	FieldGmina       = "gmina"
	FieldMiejscowosc = "miejscowosc"
	FieldDzielnica   = "dzielnica"
	FieldUlica       = "ulica"
	FieldNrBudynku   = "nr_budynku"
	FieldKodPocztowy = "kod_pocztowy"

	FieldRooms            = "liczba_pokoi"
	FieldFloor            = "pietro"
	FieldConstructionYear = "rok_budowy"
	FieldEnergyClass      = "klasa_energetyczna"
	FieldFirstOfferDate   = "data_pierwszej_oferty"
)

// FieldPattern is one catalog entry: a canonical field and the header
// aliases it is known under. Aliases mix the official legal wording, vendor
// tool wording and ad-hoc user wording, so ordering matters: the most exact
// alias first.
type FieldPattern struct {
	Field    string
	Patterns []string
}

// fieldCatalog is the process-wide catalog, loaded once and never mutated.
// Matching is done on normalized text, so aliases are written the way users
// type them.
var fieldCatalog = []FieldPattern{
	// Identification
	{FieldPropertyNumber, []string{
		"nr lokalu", "numer lokalu", "nr lokalu lub domu jednorodzinnego nadany przez dewelopera",
		"nr lokalu lub domu", "nr domu", "symbol lokalu", "symbol", "oznaczenie lokalu",
		"numer mieszkania", "nr mieszkania", "numer oferty", "id lokalu", "lokal",
	}},
	{FieldPropertyType, []string{
		"rodzaj nieruchomosci", "rodzaj nieruchomości", "typ nieruchomosci", "typ lokalu",
		"rodzaj lokalu", "lokal mieszkalny dom jednorodzinny", "typ",
	}},
	{"nazwa_inwestycji", []string{
		"nazwa inwestycji", "inwestycja", "nazwa przedsiewziecia deweloperskiego",
		"przedsiewziecie deweloperskie", "nazwa osiedla", "osiedle", "etap inwestycji",
	}},
	{"budynek", []string{"budynek", "nr budynku inwestycji", "oznaczenie budynku", "blok"}},
	{"klatka", []string{"klatka", "klatka schodowa", "wejscie"}},

	// Surfaces
	{FieldArea, []string{
		"powierzchnia uzytkowa", "powierzchnia użytkowa", "powierzchnia uzytkowa lokalu",
		"powierzchnia uzytkowa lokalu mieszkalnego", "powierzchnia", "metraz", "metraż",
		"pow uzytkowa", "pow", "powierzchnia m2", "area",
	}},
	{"powierzchnia_calkowita", []string{"powierzchnia calkowita", "pow calkowita"}},
	{"powierzchnia_ogrodka", []string{"powierzchnia ogrodka", "ogrodek m2", "ogrod"}},
	{"powierzchnia_balkonu", []string{"powierzchnia balkonu", "balkon m2"}},
	{"powierzchnia_tarasu", []string{"powierzchnia tarasu", "taras m2"}},

	// Prices
	{FieldPricePerM2, []string{
		"cena za m2", "cena m2", "cena 1 m2", "cena za metr", "cena m2 powierzchni uzytkowej",
		"cena 1 m2 powierzchni uzytkowej lokalu mieszkalnego", "cena jednostkowa",
		"cena metra kwadratowego", "stawka za m2", "cena za m2 brutto",
	}},
	{FieldTotalPrice, []string{
		"cena calkowita", "cena całkowita", "cena lokalu", "cena lokalu mieszkalnego",
		"cena lokalu mieszkalnego lub domu jednorodzinnego", "cena brutto", "cena ofertowa",
		"cena ofertowa brutto", "cena mieszkania", "wartosc brutto", "cena",
	}},
	{FieldFinalPrice, []string{
		"cena ostateczna", "cena koncowa", "cena transakcyjna", "cena sprzedazy",
		"cena uwzgledniajaca cene lokalu oraz pomieszczen przynaleznych",
		"cena lokalu z pomieszczeniami przynaleznymi",
	}},
	{FieldFinalPricePerM2, []string{
		"cena ostateczna za m2", "ostateczna cena m2", "cena transakcyjna za m2",
	}},
	{"data_obowiazywania_ceny", []string{
		"data od ktorej cena obowiazuje", "data obowiazywania ceny", "cena obowiazuje od",
		"data od ktorej obowiazuje cena lokalu",
	}},
	{"data_obowiazywania_ceny_m2", []string{
		"data od ktorej obowiazuje cena za m2", "data obowiazywania ceny m2",
	}},
	{"data_obowiazywania_ceny_ostatecznej", []string{
		"data od ktorej obowiazuje cena ostateczna", "data obowiazywania ceny ostatecznej",
	}},

	// Status and dates
	{FieldStatus, []string{
		"status", "status sprzedazy", "status lokalu", "dostepnosc", "stan sprzedazy", "stan",
	}},
	{FieldFirstOfferDate, []string{
		"data pierwszego oferowania", "data pierwszej oferty",
		"data pierwszego zaoferowania do sprzedazy", "oferowany od", "w sprzedazy od",
	}},
	{"data_sprzedazy", []string{"data sprzedazy", "data transakcji", "data umowy", "data rezerwacji"}},
	{"termin_oddania", []string{
		"termin oddania", "termin realizacji", "planowany termin oddania",
		"data oddania do uzytkowania", "termin zakonczenia budowy",
	}},

	// Location of the investment
	{FieldWojewodztwo, []string{"wojewodztwo", "województwo", "woj"}},
	{FieldPowiat, []string{"powiat"}},
	{FieldGmina, []string{"gmina"}},
	{FieldMiejscowosc, []string{"miejscowosc", "miejscowość", "miasto"}},
	{FieldDzielnica, []string{"dzielnica", "osiedle dzielnica"}},
	{FieldUlica, []string{"ulica", "ul", "adres ulica", "nazwa ulicy"}},
	{FieldNrBudynku, []string{"nr budynku", "numer budynku", "nr nieruchomosci"}},
	{FieldKodPocztowy, []string{"kod pocztowy", "kod"}},
	{"adres", []string{"adres", "adres inwestycji", "lokalizacja", "polozenie"}},

	// Unit characteristics
	{FieldRooms, []string{
		"liczba pokoi", "pokoje", "ilosc pokoi", "liczba pomieszczen", "pokoi",
	}},
	{FieldFloor, []string{
		"pietro", "piętro", "kondygnacja", "nr kondygnacji", "poziom",
	}},
	{"liczba_kondygnacji", []string{"liczba kondygnacji", "ilosc kondygnacji"}},
	{FieldConstructionYear, []string{
		"rok budowy", "rok oddania", "rok zakonczenia budowy", "rocznik",
	}},
	{FieldEnergyClass, []string{
		"klasa energetyczna", "swiadectwo energetyczne", "charakterystyka energetyczna",
		"wskaznik ep", "klasa efektywnosci energetycznej",
	}},
	{"ekspozycja", []string{"ekspozycja", "strony swiata", "usytuowanie"}},
	{"uklad", []string{"uklad pomieszczen", "rozklad", "uklad"}},
	{"standard", []string{"standard wykonczenia", "standard", "stan wykonczenia", "wykonczenie"}},
	{"balkon", []string{"balkon", "czy balkon"}},
	{"taras", []string{"taras", "czy taras"}},
	{"ogrodek", []string{"ogrodek", "ogródek", "czy ogrodek"}},
	{"winda", []string{"winda", "czy winda"}},
	{"piwnica", []string{"piwnica", "czy piwnica"}},

	// Ancillary rooms (pomieszczenia przynalezne)
	{"rodzaj_pomieszczen_przynaleznych", []string{
		"rodzaj pomieszczen przynaleznych", "rodzaje pomieszczen przynaleznych",
		"pomieszczenia przynalezne",
	}},
	{"oznaczenie_pomieszczen_przynaleznych", []string{
		"oznaczenie pomieszczen przynaleznych", "nr pomieszczenia przynaleznego",
	}},
	{"powierzchnia_pomieszczen_przynaleznych", []string{
		"powierzchnia pomieszczen przynaleznych", "pow pomieszczen przynaleznych",
	}},
	{"cena_pomieszczen_przynaleznych", []string{
		"cena pomieszczen przynaleznych", "cena pomieszczenia przynaleznego",
	}},
	{"komorka_lokatorska", []string{
		"komorka lokatorska", "komórka lokatorska", "komorka", "nr komorki",
	}},
	{"cena_komorki", []string{"cena komorki lokatorskiej", "cena komorki"}},
	{"miejsce_postojowe", []string{
		"miejsce postojowe", "miejsce parkingowe", "garaz", "garaż", "nr miejsca postojowego",
		"stanowisko postojowe",
	}},
	{"cena_miejsca_postojowego", []string{
		"cena miejsca postojowego", "cena miejsca parkingowego", "cena garazu",
	}},

	// Other considerations (inne swiadczenia pieniezne)
	{"inne_swiadczenia", []string{
		"inne swiadczenia pieniezne", "rodzaj innych swiadczen pienieznych", "inne oplaty",
	}},
	{"wartosc_innych_swiadczen", []string{
		"wartosc innych swiadczen pienieznych", "wysokosc innych swiadczen",
	}},
	{"data_innych_swiadczen", []string{
		"data od ktorej obowiazuje swiadczenie", "data obowiazywania innych swiadczen",
	}},

	// Developer identity (ministerial schema carries these on every row)
	{"nazwa_dewelopera", []string{
		"nazwa dewelopera", "deweloper", "firma deweloperska", "sprzedajacy", "inwestor",
	}},
	{"forma_prawna", []string{"forma prawna dewelopera", "forma prawna"}},
	{"nip", []string{"nip", "nr nip"}},
	{"regon", []string{"regon", "nr regon"}},
	{"krs", []string{"nr krs", "krs"}},
	{"ceidg", []string{"nr wpisu do ceidg", "ceidg"}},
	{"telefon", []string{"nr telefonu", "telefon", "tel"}},
	{"email", []string{"adres poczty elektronicznej", "email", "e mail", "adres email"}},
	{"faks", []string{"nr faksu", "faks", "fax"}},
	{"strona_www", []string{
		"adres strony internetowej", "strona internetowa", "www", "strona www",
	}},
	{"strona_prospektu", []string{
		"adres strony internetowej na ktorej udostepniony jest prospekt informacyjny",
		"adres strony prospektu", "prospekt informacyjny",
	}},

	// Developer registered office address
	{"siedziba_wojewodztwo", []string{"wojewodztwo siedziby", "wojewodztwo adres siedziby"}},
	{"siedziba_powiat", []string{"powiat siedziby", "powiat adres siedziby"}},
	{"siedziba_gmina", []string{"gmina siedziby", "gmina adres siedziby"}},
	{"siedziba_miejscowosc", []string{"miejscowosc siedziby", "miejscowosc adres siedziby"}},
	{"siedziba_ulica", []string{"ulica siedziby", "ulica adres siedziby"}},
	{"siedziba_nr_budynku", []string{"nr budynku siedziby", "nr nieruchomosci siedziby"}},
	{"siedziba_nr_lokalu", []string{"nr lokalu siedziby"}},
	{"siedziba_kod_pocztowy", []string{"kod pocztowy siedziby"}},

	// Sales office address
	{"sprzedaz_wojewodztwo", []string{"wojewodztwo lokalu sprzedazy", "wojewodztwo punktu sprzedazy"}},
	{"sprzedaz_miejscowosc", []string{"miejscowosc lokalu sprzedazy", "miejscowosc punktu sprzedazy"}},
	{"sprzedaz_ulica", []string{"ulica lokalu sprzedazy", "ulica punktu sprzedazy"}},
	{"sprzedaz_kod_pocztowy", []string{"kod pocztowy lokalu sprzedazy"}},

	// Legal / land registry
	{"nr_ksiegi_wieczystej", []string{
		"nr ksiegi wieczystej", "ksiega wieczysta", "kw",
	}},
	{"nr_dzialki", []string{"nr dzialki", "numer dzialki", "dzialka ewidencyjna"}},
	{"obreb", []string{"obreb ewidencyjny", "obreb"}},
	{"nr_pozwolenia", []string{
		"nr pozwolenia na budowe", "pozwolenie na budowe", "decyzja o pozwoleniu na budowe",
	}},

	// Misc
	{"uwagi", []string{"uwagi", "komentarz", "notatki", "opis", "dodatkowe informacje"}},
	{"waluta", []string{"waluta"}},
	{"vat", []string{"stawka vat", "vat"}},
	{"id_wewnetrzny", []string{
		"id wewnetrzny", "identyfikator wewnetrzny", "id systemowy", "id rekordu", "lp",
	}},
}

// Catalog returns the canonical field catalog. The returned slice is shared
// static data; callers must not mutate it.
func Catalog() []FieldPattern {
	return fieldCatalog
}

// priceFields are the canonical fields the sold-unit marker check inspects.
var priceFields = []string{
	FieldPricePerM2,
	FieldTotalPrice,
	FieldFinalPrice,
	FieldFinalPricePerM2,
}

// numericCatalogFields parse through locale-aware numeric normalization.
var numericCatalogFields = map[string]bool{
	FieldArea:            true,
	FieldPricePerM2:      true,
	FieldTotalPrice:      true,
	FieldFinalPrice:      true,
	FieldFinalPricePerM2: true,
}

// Package i18n holds the localized display-string tables for the bridge.
// Keys are the stable English field and mode names; lookups fall back to
// the key itself so a missing translation never breaks a device name.
package i18n

import "fmt"

// Language selects the display language for device names and mode labels.
type Language int

const (
	English Language = iota
	Polish
	Dutch
)

func (l Language) String() string {
	switch l {
	case English:
		return "en"
	case Polish:
		return "pl"
	case Dutch:
		return "nl"
	}
	return "unknown"
}

// Parse maps a config language code onto a Language.
func Parse(code string) (Language, error) {
	switch code {
	case "", "en":
		return English, nil
	case "pl":
		return Polish, nil
	case "nl":
		return Dutch, nil
	}
	return English, fmt.Errorf("i18n: unsupported language %q", code)
}

// Translator resolves display strings for one fixed language.
type Translator struct {
	lang Language
}

func NewTranslator(lang Language) *Translator {
	return &Translator{lang: lang}
}

func (t *Translator) Language() Language { return t.lang }

// T returns the translation for key, falling back to English (the key).
func (t *Translator) T(key string) string {
	if t == nil || t.lang == English {
		return key
	}
	entry, ok := translations[key]
	if !ok {
		return key
	}
	s := ""
	switch t.lang {
	case Polish:
		s = entry.pl
	case Dutch:
		s = entry.nl
	}
	if s == "" {
		return key
	}
	return s
}

type entry struct {
	pl string
	nl string
}

var translations = map[string]entry{
	"Heat supply temp":   {pl: "Temp zasilania", nl: "Aanvoertemp verw"},
	"Heat return temp":   {pl: "Temp powrotu", nl: "Retourtemp verw"},
	"Return temp target": {pl: "Temp powr cel", nl: "Retourtemp doel"},
	"Outside temp":       {pl: "Temp zewn", nl: "Buitentemp"},
	"Outside temp avg":   {pl: "Temp zewn śred", nl: "Buitentemp gem"},
	"DHW temp":           {pl: "Temp cwu", nl: "Temp tapwater"},
	"DHW temp target":    {pl: "Temp cwu cel", nl: "Tapwater inst"},
	"WP source in temp":  {pl: "Temp WP źródło wej", nl: "WP bron in temp"},
	"WP source out temp": {pl: "Temp WP źródło wyj", nl: "WP bron uit temp"},
	"MC1 temp":           {pl: "Temp OM1", nl: "Menggroep1 temp"},
	"MC1 temp target":    {pl: "Temp OM1 cel", nl: "Menggroep1 inst"},
	"MC2 temp":           {pl: "Temp OM2", nl: "Menggroep2 temp"},
	"MC2 temp target":    {pl: "Temp OM2 cel", nl: "Menggroep2 inst"},
	"Heating mode":       {pl: "Obieg grzewczy", nl: "Verwarmen"},
	"Hot water mode":     {pl: "Woda użytkowa", nl: "Warmwater"},
	"Cooling":            {pl: "Chłodzenie", nl: "Koeling"},
	"Automatic":          {pl: "Automatyczny", nl: "Automatisch"},
	"2nd heat source":    {pl: "II źr. ciepła", nl: "2e warm.opwek"},
	"Party":              {pl: "Party", nl: "Party"},
	"Holidays":           {pl: "Wakacje", nl: "Vakantie"},
	"Off":                {pl: "Wył.", nl: "Uit"},
	"No requirement":     {pl: "Brak zapotrzebowania", nl: "Geen warmtevraag"},
	"Swimming pool mode / Photovoltaik": {
		pl: "Tryb basen / Fotowoltaika", nl: "Zwembad / Fotovoltaïek",
	},
	"EVUM":    {pl: "EVU", nl: "EVU"},
	"Defrost": {pl: "Rozmrażanie", nl: "Ontdooien"},
	"Heating external source mode": {
		pl: "Ogrzewanie z zewnętrznego źródła", nl: "Verwarmen 2e warm.opwek",
	},
	"Temp +-":          {pl: "Temp +-", nl: "Temp +-"},
	"Working mode":     {pl: "Stan pracy", nl: "Bedrijfsmode"},
	"Flow":             {pl: "Przepływ", nl: "Debiet"},
	"Compressor freq":  {pl: "Częst sprężarki", nl: "Compr freq"},
	"Room temp":        {pl: "Temp pokojowa", nl: "Ruimtetemp act"},
	"Room temp target": {pl: "Temp pokoj cel", nl: "Ruimtetemp gew"},
	"Power total":      {pl: "Pobór mocy", nl: "Energie totaal"},
	"Power heating":    {pl: "Pobór grz", nl: "Energie verw"},
	"Power DHW":        {pl: "Pobór cwu", nl: "Energie warmw"},
	"Heat out total":   {pl: "Moc grz razem", nl: "Verwarm totaal"},
	"Heat out heating": {pl: "Moc grz ogrz", nl: "Verwarm verw"},
	"Heat out DHW":     {pl: "Moc grz cwu", nl: "Verwarm warmw"},
	"COP total":        {pl: "COP razem", nl: "COP totaal"},
}

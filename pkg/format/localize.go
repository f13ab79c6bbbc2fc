package format

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var translations = map[language.Tag]map[string]string{
	language.German: {
		"Dashboard":                    "Übersicht",
		"Details":                      "Details",
		"Battery":                      "Batterie",
		"Power adapter":                "Netzteil",
		"Top processes":                "Top-Prozesse",
		"Level":                        "Ladestand",
		"Source":                       "Quelle",
		"Time":                         "Zeit",
		"Last charge":                  "Letzte Ladung",
		"Health":                       "Zustand",
		"Capacity":                     "Kapazität",
		"Cycles":                       "Zyklen",
		"Temperature":                  "Temperatur",
		"Power":                        "Leistung",
		"Current":                      "Stromstärke",
		"Voltage":                      "Spannung",
		"Is charging":                  "Lädt",
		"Usage":                        "Nutzung",
		"Time to discharge":            "Zeit bis leer",
		"Time to charge":               "Zeit bis voll",
		"Unknown":                      "Unbekannt",
		"Calculating":                  "Wird berechnet",
		"Fully charged":                "Vollständig geladen",
		"Not connected":                "Nicht verbunden",
		"Yes":                          "Ja",
		"No":                           "Nein",
		"Charging":                     "Lädt",
		"Connected":                    "Verbunden",
		"Battery Power":                "Batteriebetrieb",
		"AC Power":                     "Netzbetrieb",
		"current / maximum / designed": "aktuell / maximal / Nennwert",
	},
	language.Ukrainian: {
		"Dashboard":                    "Панель",
		"Details":                      "Деталі",
		"Battery":                      "Акумулятор",
		"Power adapter":                "Адаптер живлення",
		"Top processes":                "Топ процесів",
		"Level":                        "Рівень",
		"Source":                       "Джерело",
		"Time":                         "Час",
		"Last charge":                  "Останнє заряджання",
		"Health":                       "Стан",
		"Capacity":                     "Ємність",
		"Cycles":                       "Цикли",
		"Temperature":                  "Температура",
		"Power":                        "Потужність",
		"Current":                      "Струм",
		"Voltage":                      "Напруга",
		"Is charging":                  "Заряджається",
		"Usage":                        "Використання",
		"Time to discharge":            "Час до розрядки",
		"Time to charge":               "Час до зарядки",
		"Unknown":                      "Невідомо",
		"Calculating":                  "Обчислення",
		"Fully charged":                "Повністю заряджено",
		"Not connected":                "Не підключено",
		"Yes":                          "Так",
		"No":                           "Ні",
		"Charging":                     "Заряджається",
		"Connected":                    "Підключено",
		"Battery Power":                "Акумулятор",
		"AC Power":                     "Мережа",
		"current / maximum / designed": "поточна / максимальна / проєктна",
	},
}

var defaultCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			// Keys and messages are static, SetString only fails on malformed input.
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}

// Localizer resolves UI strings for one language. Unknown keys are
// returned unchanged, which is also how English is served.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer returns a Localizer for a BCP 47 language tag such as "en"
// or "de". Unparseable tags fall back to English.
func NewLocalizer(lang string) *Localizer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(defaultCatalog)),
	}
}

// String looks up key.
func (l *Localizer) String(key string) string {
	if l == nil {
		return key
	}
	return l.printer.Sprintf(key)
}

// Language returns the tag this Localizer was built for.
func (l *Localizer) Language() string {
	return l.tag.String()
}

// Languages lists the tags that have translations, English first.
func Languages() []string {
	out := make([]string, 0, len(translations))
	for tag := range translations {
		out = append(out, tag.String())
	}
	sort.Strings(out)
	return append([]string{language.English.String()}, out...)
}

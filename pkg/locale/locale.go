package locale

import "golang.org/x/text/language"

// Strings holds the translated display strings used when building the
// checkout line item.
type Strings struct {
	Month                 string
	Months                string
	SubscriptionNoun      string
	ExclusiveAccessPhrase string
}

// Locale couples a supported language with its processor locale tag and
// display strings. Adding a language means adding both here, so the
// translation and the processor mapping cannot drift apart.
type Locale struct {
	// Language is the normalized two-letter code, also embedded in the
	// success redirect so the confirmation page renders in the same language.
	Language string
	// ProcessorLocale is the tag passed to the hosted checkout page.
	ProcessorLocale string
	Strings         Strings
}

var (
	english = Locale{
		Language:        "en",
		ProcessorLocale: "en",
		Strings: Strings{
			Month:                 "Month",
			Months:                "Months",
			SubscriptionNoun:      "Subscription",
			ExclusiveAccessPhrase: "Exclusive access to the profile of",
		},
	}

	portuguese = Locale{
		Language:        "pt",
		ProcessorLocale: "pt-BR",
		Strings: Strings{
			Month:                 "Mês",
			Months:                "Meses",
			SubscriptionNoun:      "Assinatura",
			ExclusiveAccessPhrase: "Acesso exclusivo ao perfil de",
		},
	}

	spanish = Locale{
		Language:        "es",
		ProcessorLocale: "es",
		Strings: Strings{
			Month:                 "Mes",
			Months:                "Meses",
			SubscriptionNoun:      "Suscripción",
			ExclusiveAccessPhrase: "Acceso exclusivo al perfil de",
		},
	}
)

// Resolve maps a language code to its locale. Codes are matched on the base
// language, so "pt-BR" and "PT" both resolve to Portuguese. Anything outside
// the supported set falls back to English.
func Resolve(code string) Locale {
	tag, err := language.Parse(code)
	if err != nil {
		return english
	}

	base, _ := tag.Base()
	switch base.String() {
	case "pt":
		return portuguese
	case "es":
		return spanish
	default:
		return english
	}
}

// MonthWord returns the singular or plural month word for a term length.
func (l Locale) MonthWord(termMonths int) string {
	if termMonths == 1 {
		return l.Strings.Month
	}
	return l.Strings.Months
}

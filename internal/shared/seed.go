package shared

import "bankpulse/internal/domain"

// App is one scraped store listing. Tag is the short bank name the scraper
// stamps on every raw row; the alias table maps it back to the canonical
// dimension name.
type App struct {
	Tag     string
	Package string
}

var Apps = []App{
	{Tag: "CBE", Package: "com.combanketh.mobilebanking"},
	{Tag: "BOA", Package: "com.boa.boaMobileBanking"},
	{Tag: "Dashen", Package: "com.dashen.dashensuperapp"},
}

// SeedBanks is the canonical bank dimension. Seeding is idempotent; re-runs
// never create duplicate rows.
func SeedBanks() []domain.Bank {
	return []domain.Bank{
		{Name: "Commercial Bank of Ethiopia", AppName: "CBE Mobile"},
		{Name: "Bank of Abyssinia", AppName: "BoA Mobile"},
		{Name: "Dashen Bank", AppName: "Amole"},
	}
}

// BankAliases maps free-text name variants seen in scraped data to canonical
// bank names. Consulted only after an exact dimension match fails.
func BankAliases() map[string]string {
	return map[string]string{
		"CBE":                                "Commercial Bank of Ethiopia",
		"CBE Mobile":                         "Commercial Bank of Ethiopia",
		"Commercial Bank of Ethiopia Mobile": "Commercial Bank of Ethiopia",
		"BOA":                                "Bank of Abyssinia",
		"BoA":                                "Bank of Abyssinia",
		"Bank of Abyssinia Mobile":           "Bank of Abyssinia",
		"Dashen":                             "Dashen Bank",
		"Amole":                              "Dashen Bank",
		"Dashen Bank Sc":                     "Dashen Bank",
	}
}

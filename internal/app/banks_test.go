package app_test

import (
	"testing"

	"bankpulse/internal/app"
	"bankpulse/internal/domain"
	"bankpulse/internal/shared"
)

func seededResolver() *app.BankResolver {
	banks := shared.SeedBanks()
	for i := range banks {
		banks[i].ID = int64(i + 1)
	}
	return app.NewBankResolver(banks, shared.BankAliases())
}

func TestResolve_ExactThenAlias(t *testing.T) {
	r := seededResolver()

	id, ok := r.Resolve("Commercial Bank of Ethiopia")
	if !ok {
		t.Fatalf("canonical name must resolve")
	}

	// every alias lands on the same id as its canonical name
	for _, alias := range []string{"CBE", "CBE Mobile", "Commercial Bank of Ethiopia Mobile"} {
		got, ok := r.Resolve(alias)
		if !ok || got != id {
			t.Errorf("Resolve(%q) = (%d, %v), want (%d, true)", alias, got, ok, id)
		}
	}

	boa, ok := r.Resolve("Bank of Abyssinia")
	if !ok {
		t.Fatalf("canonical name must resolve")
	}
	if got, ok := r.Resolve("BoA"); !ok || got != boa {
		t.Fatalf("Resolve(BoA) = (%d, %v), want (%d, true)", got, ok, boa)
	}
	if got, ok := r.Resolve("Amole"); !ok {
		t.Fatalf("Resolve(Amole) = (%d, %v)", got, ok)
	}
}

func TestResolve_UnknownIsNotAnError(t *testing.T) {
	r := seededResolver()
	for _, name := range []string{"Unknown Bank XYZ", "", "cbe"} { // lookups are case-sensitive
		if id, ok := r.Resolve(name); ok {
			t.Errorf("Resolve(%q) = (%d, true), want miss", name, id)
		}
	}
}

func TestResolve_AliasToMissingCanonical(t *testing.T) {
	// alias points at a name absent from the dimension: still a miss
	r := app.NewBankResolver(
		[]domain.Bank{{ID: 7, Name: "Dashen Bank"}},
		map[string]string{"Ghost": "Phantom Bank"},
	)
	if _, ok := r.Resolve("Ghost"); ok {
		t.Fatalf("alias to unseeded canonical must miss")
	}
	if id, ok := r.Resolve("Dashen Bank"); !ok || id != 7 {
		t.Fatalf("got (%d, %v)", id, ok)
	}
}

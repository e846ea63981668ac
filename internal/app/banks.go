package app

import "bankpulse/internal/domain"

// BankResolver maps free-text bank/app names onto canonical dimension ids.
// Two stages, exact match wins: (1) the name against canonical bank names,
// (2) the alias table to a canonical name, then that against the dimension.
// Pure lookup — unmapped counting is the orchestrator's job.
type BankResolver struct {
	ids     map[string]int64
	aliases map[string]string
}

func NewBankResolver(banks []domain.Bank, aliases map[string]string) *BankResolver {
	ids := make(map[string]int64, len(banks))
	for _, b := range banks {
		ids[b.Name] = b.ID
	}
	return &BankResolver{ids: ids, aliases: aliases}
}

// Resolve returns (0, false) when both stages miss; a miss is not an error.
func (r *BankResolver) Resolve(name string) (int64, bool) {
	if id, ok := r.ids[name]; ok {
		return id, true
	}
	if canon, ok := r.aliases[name]; ok {
		if id, ok := r.ids[canon]; ok {
			return id, true
		}
	}
	return 0, false
}

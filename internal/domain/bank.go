package domain

// Bank is one row of the canonical bank dimension. Seeded once per run;
// immutable afterward.
type Bank struct {
	ID      int64
	Name    string // canonical bank_name, unique
	AppName string
}

package entities

// AdminRecord is one member of the admin set. The set is seeded with the
// deploying account and must never become empty.
type AdminRecord struct {
	Account string
	AddedBy string
	AddedAt int64
}

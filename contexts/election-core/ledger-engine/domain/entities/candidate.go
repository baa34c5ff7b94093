package entities

// Candidate is scoped to one election; IDs run 1..CandidateCount in insertion
// order. Candidates are never edited or removed after registration, so
// VoteCount only ever grows through accepted ballots.
type Candidate struct {
	ElectionID uint64
	ID         uint64
	Name       string
	Party      string
	ImageURL   string
	VoteCount  uint64
}

package entities

// Ballot is the one-time record of a voter's cast choice. HasVoted flips
// false to true exactly once, atomically with Choice being set.
type Ballot struct {
	ElectionID uint64
	Account    string
	HasVoted   bool
	Choice     uint64
	CastAt     int64
}

// VoterStatus is the read projection for a voter's standing in one election.
type VoterStatus struct {
	Account  string
	Eligible bool
	HasVoted bool
	CanVote  bool
}

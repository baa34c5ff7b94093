package entities

// ElectionStatus is the derived lifecycle state of an election at a given
// point in time. Inactive takes precedence over the time window.
type ElectionStatus string

const (
	ElectionStatusInactive   ElectionStatus = "Inactive"
	ElectionStatusNotStarted ElectionStatus = "NotStarted"
	ElectionStatusActive     ElectionStatus = "Active"
	ElectionStatusEnded      ElectionStatus = "Ended"
)

// Election is the registry record for one time-boxed election. IDs are
// assigned sequentially starting at 1 and are never reused. TotalVotes and
// CandidateCount are maintained by the ledger itself, never set by callers.
type Election struct {
	ID             uint64
	Name           string
	Description    string
	StartTime      int64 // unix seconds, inclusive
	EndTime        int64 // unix seconds, inclusive
	IsActive       bool
	Creator        string
	TotalVotes     uint64
	CandidateCount uint64
}

// StatusAt derives the election status for the given unix timestamp.
func (e Election) StatusAt(now int64) ElectionStatus {
	if !e.IsActive {
		return ElectionStatusInactive
	}
	if now < e.StartTime {
		return ElectionStatusNotStarted
	}
	if now > e.EndTime {
		return ElectionStatusEnded
	}
	return ElectionStatusActive
}

// WindowOpenAt reports whether the voting window is open. Both edges are
// inclusive: a vote at exactly StartTime or EndTime is accepted.
func (e Election) WindowOpenAt(now int64) bool {
	return now >= e.StartTime && now <= e.EndTime
}

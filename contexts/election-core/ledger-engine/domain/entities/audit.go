package entities

// EventType tags one accepted state transition in the audit log.
type EventType string

const (
	EventElectionCreated       EventType = "election.created"
	EventElectionStatusChanged EventType = "election.status_changed"
	EventCandidateAdded        EventType = "candidate.added"
	EventVoterRegistered       EventType = "voter.registered"
	EventVoteCast              EventType = "vote.cast"
	EventAdminAdded            EventType = "admin.added"
	EventAdminRemoved          EventType = "admin.removed"
)

// AuditEntry is one row of the append-only audit log. Seq is the total order
// of accepted mutations; it is a durable counter owned by the store, not
// derivable from record counts. Data carries enough fields for an external
// observer to reconstruct the state change without re-querying the ledger.
type AuditEntry struct {
	Seq        uint64
	Type       EventType
	ElectionID uint64 // zero for admin-set events
	Actor      string
	OccurredAt int64
	Data       map[string]any
}

package ports

import (
	"context"
	"time"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
)

// Repositories below are the ledger's mutation boundary. Every mutating
// method is one serialized transaction: it validates its preconditions,
// applies the state change, and appends the matching audit entry as a single
// unit, or leaves state untouched. Timestamps are passed in by the caller so
// adapters stay deterministic under test clocks.

type ElectionRepository interface {
	// InsertElection assigns the next sequential election id and stores the
	// record active with zeroed counters. The at argument stamps the audit
	// entry with the mutation time, independent of the scheduled window.
	InsertElection(ctx context.Context, actor string, election entities.Election, at int64) (entities.Election, error)
	GetElection(ctx context.Context, electionID uint64) (entities.Election, error)
	ListElections(ctx context.Context) ([]entities.Election, error)
	// ListActiveElections filters the active index live against the
	// authoritative records, so stale or duplicate index entries never leak.
	// Results come back in ascending id order regardless of toggle history.
	ListActiveElections(ctx context.Context) ([]entities.Election, error)
	ToggleElection(ctx context.Context, actor string, electionID uint64, at int64) (entities.Election, error)
}

type CandidateRepository interface {
	// AppendCandidate assigns the next per-election candidate id
	// (candidateCount+1) and increments the election's candidate counter.
	AppendCandidate(ctx context.Context, actor string, electionID uint64, candidate entities.Candidate, at int64) (entities.Candidate, error)
	// ListCandidates returns candidates in ascending id (insertion) order.
	ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error)
}

type VoterRepository interface {
	RegisterVoter(ctx context.Context, actor string, electionID uint64, account string, at int64) error
	IsEligible(ctx context.Context, electionID uint64, account string) (bool, error)
	GetBallot(ctx context.Context, electionID uint64, account string) (entities.Ballot, bool, error)
	// RecordBallot applies the full vote precondition chain in order
	// (existence, active flag, time window, eligibility, one-vote, candidate
	// range) and then atomically writes the ballot, bumps the candidate's
	// vote count and the election's total, and appends the audit entry.
	RecordBallot(ctx context.Context, electionID uint64, account string, candidateID uint64, at int64) (entities.Ballot, error)
}

type AdminRepository interface {
	IsAdmin(ctx context.Context, account string) (bool, error)
	AddAdmin(ctx context.Context, actor string, account string, at int64) (entities.AdminRecord, error)
	// RemoveAdmin enforces the self-removal and minimum-set guards under the
	// same lock as the removal itself.
	RemoveAdmin(ctx context.Context, actor string, account string, at int64) error
	ListAdmins(ctx context.Context) ([]entities.AdminRecord, error)
}

type AuditLog interface {
	ListAudit(ctx context.Context, afterSeq uint64, limit int) ([]entities.AuditEntry, error)
	ListUnpublishedAudit(ctx context.Context, limit int) ([]entities.AuditEntry, error)
	MarkAuditPublished(ctx context.Context, seq uint64, at time.Time) error
}

type Clock interface {
	Now() time.Time
}

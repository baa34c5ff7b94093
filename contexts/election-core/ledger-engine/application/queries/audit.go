package queries

import (
	"context"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// AuditQueries pages through the audit log in sequence order so external
// observers can replay history without re-querying full state.
type AuditQueries struct {
	Audit ports.AuditLog
}

func (uc AuditQueries) List(ctx context.Context, afterSeq uint64, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	return uc.Audit.ListAudit(ctx, afterSeq, limit)
}

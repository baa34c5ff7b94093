package queries

import (
	"context"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// CandidateQueries returns candidates in insertion (ascending id) order.
// Ranked ordering belongs to ResultsUseCase; ballot-selection surfaces need
// the stable registry order.
type CandidateQueries struct {
	Candidates ports.CandidateRepository
}

func (uc CandidateQueries) List(ctx context.Context, electionID uint64) ([]entities.Candidate, error) {
	return uc.Candidates.ListCandidates(ctx, electionID)
}

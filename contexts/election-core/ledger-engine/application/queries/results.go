package queries

import (
	"context"
	"sort"
	"time"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// ElectionResults is the tally for one election, candidates ranked by vote
// count descending. Ties retain their candidate-id (insertion) order, so two
// independent recomputations always agree.
type ElectionResults struct {
	Election   entities.Election
	Candidates []entities.Candidate
	LastUpdate time.Time
}

// ResultsUseCase computes a tally on demand from committed state.
type ResultsUseCase struct {
	Elections  ports.ElectionRepository
	Candidates ports.CandidateRepository
	Clock      ports.Clock
}

func (uc ResultsUseCase) Execute(ctx context.Context, electionID uint64) (ElectionResults, error) {
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return ElectionResults{}, err
	}
	candidates, err := uc.Candidates.ListCandidates(ctx, electionID)
	if err != nil {
		return ElectionResults{}, err
	}

	// Input is id-ordered, so a stable sort preserves insertion order among
	// equal vote counts.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].VoteCount > candidates[j].VoteCount
	})

	return ElectionResults{
		Election:   election,
		Candidates: candidates,
		LastUpdate: uc.Clock.Now().UTC(),
	}, nil
}

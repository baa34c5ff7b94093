package queries

import (
	"context"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// ElectionView pairs the stored record with its status derived at read time.
type ElectionView struct {
	Election entities.Election
	Status   entities.ElectionStatus
}

// ElectionQueries serves the registry's read side. Reads go straight to the
// repository and never block behind the mutation path.
type ElectionQueries struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
}

func (uc ElectionQueries) Get(ctx context.Context, electionID uint64) (ElectionView, error) {
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return ElectionView{}, err
	}
	return ElectionView{
		Election: election,
		Status:   election.StatusAt(uc.Clock.Now().Unix()),
	}, nil
}

func (uc ElectionQueries) List(ctx context.Context) ([]ElectionView, error) {
	elections, err := uc.Elections.ListElections(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.Clock.Now().Unix()
	views := make([]ElectionView, 0, len(elections))
	for _, election := range elections {
		views = append(views, ElectionView{
			Election: election,
			Status:   election.StatusAt(now),
		})
	}
	return views, nil
}

// ActiveIDs returns the ids currently flagged active, already live-filtered
// and deduplicated by the repository.
func (uc ElectionQueries) ActiveIDs(ctx context.Context) ([]uint64, error) {
	elections, err := uc.Elections.ListActiveElections(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(elections))
	for _, election := range elections {
		ids = append(ids, election.ID)
	}
	return ids, nil
}

func (uc ElectionQueries) Status(ctx context.Context, electionID uint64) (entities.ElectionStatus, error) {
	election, err := uc.Elections.GetElection(ctx, electionID)
	if err != nil {
		return "", err
	}
	return election.StatusAt(uc.Clock.Now().Unix()), nil
}

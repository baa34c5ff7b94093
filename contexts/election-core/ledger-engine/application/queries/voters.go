package queries

import (
	"context"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/valueobjects"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// VoterQueries projects a voter's standing for one election.
type VoterQueries struct {
	Elections ports.ElectionRepository
	Voters    ports.VoterRepository
}

func (uc VoterQueries) Status(ctx context.Context, electionID uint64, account string) (entities.VoterStatus, error) {
	account = valueobjects.NormalizeAccount(account)
	if _, err := uc.Elections.GetElection(ctx, electionID); err != nil {
		return entities.VoterStatus{}, err
	}
	eligible, err := uc.Voters.IsEligible(ctx, electionID, account)
	if err != nil {
		return entities.VoterStatus{}, err
	}
	ballot, found, err := uc.Voters.GetBallot(ctx, electionID, account)
	if err != nil {
		return entities.VoterStatus{}, err
	}
	hasVoted := found && ballot.HasVoted
	return entities.VoterStatus{
		Account:  account,
		Eligible: eligible,
		HasVoted: hasVoted,
		CanVote:  eligible && !hasVoted,
	}, nil
}

// Choice returns the recorded ballot, failing ErrHasNotVoted until the
// account's one-time ballot exists.
func (uc VoterQueries) Choice(ctx context.Context, electionID uint64, account string) (entities.Ballot, error) {
	account = valueobjects.NormalizeAccount(account)
	if _, err := uc.Elections.GetElection(ctx, electionID); err != nil {
		return entities.Ballot{}, err
	}
	ballot, found, err := uc.Voters.GetBallot(ctx, electionID, account)
	if err != nil {
		return entities.Ballot{}, err
	}
	if !found || !ballot.HasVoted {
		return entities.Ballot{}, domainerrors.ErrHasNotVoted
	}
	return ballot, nil
}

package commands

import (
	"context"
	"log/slog"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// CastVoteCommand records one voter's choice. This is the only mutation that
// does not require admin privilege.
type CastVoteCommand struct {
	Voter       string
	ElectionID  uint64
	CandidateID uint64
}

// CastVoteUseCase delegates the precondition chain to the repository so the
// checks and the mutation run inside one serialized transaction. A rejected
// vote leaves state untouched; a re-submitted accepted vote fails
// ErrAlreadyVoted instead of double counting.
type CastVoteUseCase struct {
	Voters ports.VoterRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc CastVoteUseCase) Execute(ctx context.Context, cmd CastVoteCommand) (entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	voter := normalizeAccount(cmd.Voter)
	logger.Info("vote cast started",
		"event", "ledger_vote_cast_started",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"candidate_id", cmd.CandidateID,
		"voter", voter,
	)
	if voter == "" {
		return entities.Ballot{}, domainerrors.ErrInvalidAccount
	}

	ballot, err := uc.Voters.RecordBallot(ctx, cmd.ElectionID, voter, cmd.CandidateID, uc.Clock.Now().Unix())
	if err != nil {
		logger.Warn("vote cast rejected",
			"event", "ledger_vote_cast_rejected",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"candidate_id", cmd.CandidateID,
			"voter", voter,
			"error", err.Error(),
		)
		return entities.Ballot{}, err
	}

	logger.Info("vote cast",
		"event", "ledger_vote_cast",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"election_id", ballot.ElectionID,
		"candidate_id", ballot.Choice,
		"voter", ballot.Account,
	)
	return ballot, nil
}

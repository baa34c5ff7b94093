package commands

import (
	"context"
	"log/slog"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// ToggleElectionCommand flips an election's active flag.
type ToggleElectionCommand struct {
	Actor      string
	ElectionID uint64
}

// ToggleElectionUseCase is the only post-creation mutation an election record
// supports. The repository keeps the active index in step with the flag.
type ToggleElectionUseCase struct {
	Elections ports.ElectionRepository
	Admins    ports.AdminRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc ToggleElectionUseCase) Execute(ctx context.Context, cmd ToggleElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := normalizeAccount(cmd.Actor)

	if err := ensureAdmin(ctx, uc.Admins, actor); err != nil {
		logger.Warn("election toggle rejected",
			"event", "ledger_election_toggle_unauthorized",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"actor", actor,
		)
		return entities.Election{}, err
	}

	election, err := uc.Elections.ToggleElection(ctx, actor, cmd.ElectionID, uc.Clock.Now().Unix())
	if err != nil {
		return entities.Election{}, err
	}

	logger.Info("election status toggled",
		"event", "ledger_election_status_changed",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"election_id", election.ID,
		"actor", actor,
		"is_active", election.IsActive,
	)
	return election, nil
}

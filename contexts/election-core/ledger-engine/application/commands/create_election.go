package commands

import (
	"context"
	"log/slog"
	"strings"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// CreateElectionCommand is the write-model input for election creation.
type CreateElectionCommand struct {
	Actor       string
	Name        string
	Description string
	StartTime   int64
	EndTime     int64
}

// CreateElectionUseCase allocates a new election record. Only admins may
// create elections; the time window is validated against the engine clock.
type CreateElectionUseCase struct {
	Elections ports.ElectionRepository
	Admins    ports.AdminRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc CreateElectionUseCase) Execute(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := normalizeAccount(cmd.Actor)
	logger.Info("election create started",
		"event", "ledger_election_create_started",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"actor", actor,
		"name", strings.TrimSpace(cmd.Name),
	)

	if err := ensureAdmin(ctx, uc.Admins, actor); err != nil {
		logger.Warn("election create rejected",
			"event", "ledger_election_create_unauthorized",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"actor", actor,
		)
		return entities.Election{}, err
	}
	if cmd.StartTime >= cmd.EndTime {
		return entities.Election{}, domainerrors.ErrInvalidTimeRange
	}
	now := uc.Clock.Now().Unix()
	if cmd.StartTime < now {
		return entities.Election{}, domainerrors.ErrStartTimeInPast
	}

	election, err := uc.Elections.InsertElection(ctx, actor, entities.Election{
		Name:        strings.TrimSpace(cmd.Name),
		Description: strings.TrimSpace(cmd.Description),
		StartTime:   cmd.StartTime,
		EndTime:     cmd.EndTime,
		IsActive:    true,
		Creator:     actor,
	}, now)
	if err != nil {
		logger.Error("election create failed",
			"event", "ledger_election_create_failed",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"actor", actor,
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	logger.Info("election created",
		"event", "ledger_election_created",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"election_id", election.ID,
		"actor", actor,
		"start_time", election.StartTime,
		"end_time", election.EndTime,
	)
	return election, nil
}

package commands

import (
	"context"
	"errors"
	"log/slog"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// RegisterVoterCommand marks one account eligible for one election.
type RegisterVoterCommand struct {
	Actor      string
	ElectionID uint64
	Account    string
}

// RegisterVotersCommand is the batch form. Already-registered accounts are
// skipped silently; the batch as a whole never fails on duplicates.
type RegisterVotersCommand struct {
	Actor      string
	ElectionID uint64
	Accounts   []string
}

// RegisterVotersResult reports how the batch split.
type RegisterVotersResult struct {
	Registered int
	Skipped    int
}

type RegisterVoterUseCase struct {
	Voters ports.VoterRepository
	Admins ports.AdminRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

// Execute registers a single voter. Unlike the batch form, registering an
// already-eligible account is an error here.
func (uc RegisterVoterUseCase) Execute(ctx context.Context, cmd RegisterVoterCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	actor := normalizeAccount(cmd.Actor)
	account := normalizeAccount(cmd.Account)

	if err := ensureAdmin(ctx, uc.Admins, actor); err != nil {
		logger.Warn("voter register rejected",
			"event", "ledger_voter_register_unauthorized",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"actor", actor,
		)
		return err
	}
	if account == "" {
		return domainerrors.ErrInvalidAccount
	}

	if err := uc.Voters.RegisterVoter(ctx, actor, cmd.ElectionID, account, uc.Clock.Now().Unix()); err != nil {
		return err
	}

	logger.Info("voter registered",
		"event", "ledger_voter_registered",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"voter", account,
		"actor", actor,
	)
	return nil
}

// ExecuteBatch registers every not-yet-eligible account in the list and
// counts duplicates as skips. This asymmetry with Execute is deliberate and
// mirrors the single/batch split of the registration contract.
func (uc RegisterVoterUseCase) ExecuteBatch(ctx context.Context, cmd RegisterVotersCommand) (RegisterVotersResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := normalizeAccount(cmd.Actor)

	if err := ensureAdmin(ctx, uc.Admins, actor); err != nil {
		logger.Warn("voter batch register rejected",
			"event", "ledger_voter_batch_unauthorized",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"actor", actor,
		)
		return RegisterVotersResult{}, err
	}

	now := uc.Clock.Now().Unix()
	var result RegisterVotersResult
	for _, raw := range cmd.Accounts {
		account := normalizeAccount(raw)
		if account == "" {
			result.Skipped++
			continue
		}
		err := uc.Voters.RegisterVoter(ctx, actor, cmd.ElectionID, account, now)
		if errors.Is(err, domainerrors.ErrAlreadyRegistered) {
			result.Skipped++
			continue
		}
		if err != nil {
			return RegisterVotersResult{}, err
		}
		result.Registered++
	}

	logger.Info("voter batch registered",
		"event", "ledger_voter_batch_registered",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"actor", actor,
		"registered", result.Registered,
		"skipped", result.Skipped,
	)
	return result, nil
}

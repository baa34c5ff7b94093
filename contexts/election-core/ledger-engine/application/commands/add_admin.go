package commands

import (
	"context"
	"log/slog"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// AddAdminCommand grants admin privilege to a new account.
type AddAdminCommand struct {
	Actor   string
	Account string
}

type AddAdminUseCase struct {
	Admins ports.AdminRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc AddAdminUseCase) Execute(ctx context.Context, cmd AddAdminCommand) (entities.AdminRecord, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := normalizeAccount(cmd.Actor)
	account := normalizeAccount(cmd.Account)

	if err := ensureAdmin(ctx, uc.Admins, actor); err != nil {
		logger.Warn("admin add rejected",
			"event", "ledger_admin_add_unauthorized",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"actor", actor,
			"account", account,
		)
		return entities.AdminRecord{}, err
	}
	if account == "" {
		return entities.AdminRecord{}, domainerrors.ErrInvalidAccount
	}

	record, err := uc.Admins.AddAdmin(ctx, actor, account, uc.Clock.Now().Unix())
	if err != nil {
		return entities.AdminRecord{}, err
	}

	logger.Info("admin added",
		"event", "ledger_admin_added",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"actor", actor,
		"account", record.Account,
	)
	return record, nil
}

package commands

import (
	"context"
	"log/slog"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// RemoveAdminCommand revokes admin privilege. An admin can never remove
// itself, and the repository refuses to empty the admin set.
type RemoveAdminCommand struct {
	Actor   string
	Account string
}

type RemoveAdminUseCase struct {
	Admins ports.AdminRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (uc RemoveAdminUseCase) Execute(ctx context.Context, cmd RemoveAdminCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	actor := normalizeAccount(cmd.Actor)
	account := normalizeAccount(cmd.Account)

	if err := ensureAdmin(ctx, uc.Admins, actor); err != nil {
		logger.Warn("admin remove rejected",
			"event", "ledger_admin_remove_unauthorized",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"actor", actor,
			"account", account,
		)
		return err
	}
	if account == "" {
		return domainerrors.ErrInvalidAccount
	}

	if err := uc.Admins.RemoveAdmin(ctx, actor, account, uc.Clock.Now().Unix()); err != nil {
		return err
	}

	logger.Info("admin removed",
		"event", "ledger_admin_removed",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"actor", actor,
		"account", account,
	)
	return nil
}

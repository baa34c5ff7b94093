package commands

import (
	"context"

	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/valueobjects"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// ensureAdmin gates every mutating operation except vote casting. The actor
// must already be normalized by the caller.
func ensureAdmin(ctx context.Context, admins ports.AdminRepository, actor string) error {
	if actor == "" {
		return domainerrors.ErrUnauthorized
	}
	ok, err := admins.IsAdmin(ctx, actor)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

func normalizeAccount(v string) string {
	return valueobjects.NormalizeAccount(v)
}

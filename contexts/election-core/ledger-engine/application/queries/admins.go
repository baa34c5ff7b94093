package queries

import (
	"context"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/valueobjects"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// AdminQueries exposes the admin set read side, including the membership
// check the gateway uses for its login response.
type AdminQueries struct {
	Admins ports.AdminRepository
}

func (uc AdminQueries) IsAdmin(ctx context.Context, account string) (bool, error) {
	return uc.Admins.IsAdmin(ctx, valueobjects.NormalizeAccount(account))
}

func (uc AdminQueries) List(ctx context.Context) ([]entities.AdminRecord, error) {
	return uc.Admins.ListAdmins(ctx)
}

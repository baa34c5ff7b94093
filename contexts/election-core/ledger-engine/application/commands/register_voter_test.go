package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/memory"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
)

func registrationFixture(t *testing.T) (*memory.Store, RegisterVoterUseCase, uint64) {
	t.Helper()
	store := memory.NewStore("0xadmin")
	election, err := store.InsertElection(context.Background(), "0xadmin", entities.Election{
		Name:      "general",
		StartTime: 100,
		EndTime:   200,
		Creator:   "0xadmin",
	}, 10)
	if err != nil {
		t.Fatalf("insert election failed: %v", err)
	}
	uc := RegisterVoterUseCase{Voters: store, Admins: store, Clock: &fakeClock{now: 90}}
	return store, uc, election.ID
}

func TestRegisterVoterSingleFailsOnDuplicate(t *testing.T) {
	_, uc, electionID := registrationFixture(t)

	if err := uc.Execute(context.Background(), RegisterVoterCommand{
		Actor: "0xadmin", ElectionID: electionID, Account: "0xV1",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	err := uc.Execute(context.Background(), RegisterVoterCommand{
		Actor: "0xadmin", ElectionID: electionID, Account: "0xv1",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterVotersBatchSkipsDuplicates(t *testing.T) {
	store, uc, electionID := registrationFixture(t)

	if err := store.RegisterVoter(context.Background(), "0xadmin", electionID, "0xv1", 90); err != nil {
		t.Fatalf("seed registration failed: %v", err)
	}

	result, err := uc.ExecuteBatch(context.Background(), RegisterVotersCommand{
		Actor:      "0xadmin",
		ElectionID: electionID,
		Accounts:   []string{"0xv1", "0xv2", "", "0xV2", "0xv3"},
	})
	if err != nil {
		t.Fatalf("batch register failed: %v", err)
	}
	if result.Registered != 2 {
		t.Fatalf("expected 2 registered, got %d", result.Registered)
	}
	if result.Skipped != 3 {
		t.Fatalf("expected 3 skipped, got %d", result.Skipped)
	}

	eligible, err := store.IsEligible(context.Background(), electionID, "0xv3")
	if err != nil || !eligible {
		t.Fatalf("expected 0xv3 eligible, got %v %v", eligible, err)
	}
}

func TestRegisterVotersBatchFailsOnMissingElection(t *testing.T) {
	_, uc, _ := registrationFixture(t)

	_, err := uc.ExecuteBatch(context.Background(), RegisterVotersCommand{
		Actor:      "0xadmin",
		ElectionID: 404,
		Accounts:   []string{"0xv1"},
	})
	if !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestRegisterVoterRequiresAdmin(t *testing.T) {
	_, uc, electionID := registrationFixture(t)

	err := uc.Execute(context.Background(), RegisterVoterCommand{
		Actor: "0xintruder", ElectionID: electionID, Account: "0xv1",
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

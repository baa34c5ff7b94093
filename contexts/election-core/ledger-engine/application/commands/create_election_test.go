package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/memory"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
)

func TestCreateElectionRequiresAdmin(t *testing.T) {
	store := memory.NewStore("0xadmin")
	uc := CreateElectionUseCase{Elections: store, Admins: store, Clock: &fakeClock{now: 50}}

	_, err := uc.Execute(context.Background(), CreateElectionCommand{
		Actor:     "0xintruder",
		Name:      "general",
		StartTime: 100,
		EndTime:   200,
	})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateElectionValidatesWindow(t *testing.T) {
	store := memory.NewStore("0xadmin")
	uc := CreateElectionUseCase{Elections: store, Admins: store, Clock: &fakeClock{now: 50}}

	_, err := uc.Execute(context.Background(), CreateElectionCommand{
		Actor:     "0xadmin",
		Name:      "general",
		StartTime: 200,
		EndTime:   100,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}

	_, err = uc.Execute(context.Background(), CreateElectionCommand{
		Actor:     "0xadmin",
		Name:      "general",
		StartTime: 100,
		EndTime:   100,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTimeRange) {
		t.Fatalf("expected ErrInvalidTimeRange for empty window, got %v", err)
	}

	_, err = uc.Execute(context.Background(), CreateElectionCommand{
		Actor:     "0xadmin",
		Name:      "general",
		StartTime: 40,
		EndTime:   200,
	})
	if !errors.Is(err, domainerrors.ErrStartTimeInPast) {
		t.Fatalf("expected ErrStartTimeInPast, got %v", err)
	}
}

func TestCreateElectionDefaultsActiveAndNormalizesActor(t *testing.T) {
	store := memory.NewStore("0xAdmin")
	uc := CreateElectionUseCase{Elections: store, Admins: store, Clock: &fakeClock{now: 50}}

	election, err := uc.Execute(context.Background(), CreateElectionCommand{
		Actor:       "  0xADMIN ",
		Name:        "  general  ",
		Description: "board vote",
		StartTime:   100,
		EndTime:     200,
	})
	if err != nil {
		t.Fatalf("create election failed: %v", err)
	}
	if election.ID != 1 {
		t.Fatalf("expected id 1, got %d", election.ID)
	}
	if !election.IsActive {
		t.Fatalf("expected new election active")
	}
	if election.Name != "general" {
		t.Fatalf("expected trimmed name, got %q", election.Name)
	}
	if election.Creator != "0xadmin" {
		t.Fatalf("expected normalized creator, got %q", election.Creator)
	}

	// Creating a window that starts right now is allowed.
	if _, err := uc.Execute(context.Background(), CreateElectionCommand{
		Actor:     "0xadmin",
		Name:      "snap",
		StartTime: 50,
		EndTime:   60,
	}); err != nil {
		t.Fatalf("expected start-at-now to be accepted, got %v", err)
	}
}

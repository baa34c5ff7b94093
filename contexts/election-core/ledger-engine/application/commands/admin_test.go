package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/memory"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
)

func TestAddAdminGrantsAndRejectsDuplicates(t *testing.T) {
	store := memory.NewStore("0xadmin")
	clock := &fakeClock{now: 10}
	add := AddAdminUseCase{Admins: store, Clock: clock}

	record, err := add.Execute(context.Background(), AddAdminCommand{Actor: "0xadmin", Account: "0xSecond"})
	if err != nil {
		t.Fatalf("add admin failed: %v", err)
	}
	if record.Account != "0xsecond" || record.AddedBy != "0xadmin" || record.AddedAt != 10 {
		t.Fatalf("unexpected record %+v", record)
	}

	_, err = add.Execute(context.Background(), AddAdminCommand{Actor: "0xadmin", Account: "0xsecond"})
	if !errors.Is(err, domainerrors.ErrAlreadyAdmin) {
		t.Fatalf("expected ErrAlreadyAdmin, got %v", err)
	}

	_, err = add.Execute(context.Background(), AddAdminCommand{Actor: "0xintruder", Account: "0xthird"})
	if !errors.Is(err, domainerrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRemoveAdminGuards(t *testing.T) {
	store := memory.NewStore("0xadmin")
	clock := &fakeClock{now: 10}
	add := AddAdminUseCase{Admins: store, Clock: clock}
	remove := RemoveAdminUseCase{Admins: store, Clock: clock}

	if err := remove.Execute(context.Background(), RemoveAdminCommand{Actor: "0xadmin", Account: "0xadmin"}); !errors.Is(err, domainerrors.ErrSelfRemoval) {
		t.Fatalf("expected ErrSelfRemoval, got %v", err)
	}
	if err := remove.Execute(context.Background(), RemoveAdminCommand{Actor: "0xadmin", Account: "0xghost"}); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	if _, err := add.Execute(context.Background(), AddAdminCommand{Actor: "0xadmin", Account: "0xsecond"}); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}
	if err := remove.Execute(context.Background(), RemoveAdminCommand{Actor: "0xsecond", Account: "0xadmin"}); err != nil {
		t.Fatalf("remove admin failed: %v", err)
	}

	// The set is back to one member; it can never be drained.
	if err := remove.Execute(context.Background(), RemoveAdminCommand{Actor: "0xsecond", Account: "0xsecond"}); !errors.Is(err, domainerrors.ErrSelfRemoval) {
		t.Fatalf("expected ErrSelfRemoval, got %v", err)
	}

	isAdmin, err := store.IsAdmin(context.Background(), "0xsecond")
	if err != nil || !isAdmin {
		t.Fatalf("expected 0xsecond to remain admin, got %v %v", isAdmin, err)
	}
}

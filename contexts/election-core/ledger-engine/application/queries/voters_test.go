package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
)

func TestVoterStatusProjection(t *testing.T) {
	store, electionID := resultsFixture(t)
	uc := VoterQueries{Elections: store, Voters: store}
	ctx := context.Background()

	status, err := uc.Status(ctx, electionID, "0xv1")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.Eligible || status.HasVoted || status.CanVote {
		t.Fatalf("expected unregistered projection, got %+v", status)
	}

	if err := store.RegisterVoter(ctx, "0xadmin", electionID, "0xv1", 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	status, err = uc.Status(ctx, electionID, "0xV1")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.Eligible || status.HasVoted || !status.CanVote {
		t.Fatalf("expected eligible projection, got %+v", status)
	}

	if _, err := store.RecordBallot(ctx, electionID, "0xv1", 1, 150); err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}
	status, err = uc.Status(ctx, electionID, "0xv1")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.Eligible || !status.HasVoted || status.CanVote {
		t.Fatalf("expected voted projection, got %+v", status)
	}

	if _, err := uc.Status(ctx, 404, "0xv1"); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestVoterChoiceRequiresBallot(t *testing.T) {
	store, electionID := resultsFixture(t)
	uc := VoterQueries{Elections: store, Voters: store}
	ctx := context.Background()

	if _, err := uc.Choice(ctx, electionID, "0xv1"); !errors.Is(err, domainerrors.ErrHasNotVoted) {
		t.Fatalf("expected ErrHasNotVoted, got %v", err)
	}

	castBallot(t, store, electionID, "0xv1", 2)
	ballot, err := uc.Choice(ctx, electionID, "0xv1")
	if err != nil {
		t.Fatalf("choice failed: %v", err)
	}
	if ballot.Choice != 2 || ballot.CastAt != 150 {
		t.Fatalf("unexpected ballot %+v", ballot)
	}
}

func TestElectionStatusDerivation(t *testing.T) {
	store, electionID := resultsFixture(t)

	cases := []struct {
		now  int64
		want entities.ElectionStatus
	}{
		{now: 50, want: entities.ElectionStatusNotStarted},
		{now: 100, want: entities.ElectionStatusActive},
		{now: 200, want: entities.ElectionStatusActive},
		{now: 201, want: entities.ElectionStatusEnded},
	}
	for _, tc := range cases {
		uc := ElectionQueries{Elections: store, Clock: fixedClock{now: tc.now}}
		status, err := uc.Status(context.Background(), electionID)
		if err != nil {
			t.Fatalf("status at %d failed: %v", tc.now, err)
		}
		if status != tc.want {
			t.Fatalf("at %d expected %s, got %s", tc.now, tc.want, status)
		}
	}

	// The manual flag overrides the window.
	if _, err := store.ToggleElection(context.Background(), "0xadmin", electionID, 150); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	uc := ElectionQueries{Elections: store, Clock: fixedClock{now: 150}}
	status, err := uc.Status(context.Background(), electionID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status != entities.ElectionStatusInactive {
		t.Fatalf("expected inactive, got %s", status)
	}
}

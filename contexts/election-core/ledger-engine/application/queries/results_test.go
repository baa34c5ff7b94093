package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/memory"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
)

type fixedClock struct {
	now int64
}

func (c fixedClock) Now() time.Time {
	return time.Unix(c.now, 0).UTC()
}

func resultsFixture(t *testing.T) (*memory.Store, uint64) {
	t.Helper()
	store := memory.NewStore("0xadmin")
	ctx := context.Background()

	election, err := store.InsertElection(ctx, "0xadmin", entities.Election{
		Name:      "general",
		StartTime: 100,
		EndTime:   200,
		Creator:   "0xadmin",
	}, 10)
	if err != nil {
		t.Fatalf("insert election failed: %v", err)
	}
	for _, name := range []string{"alice", "bob", "carol"} {
		if _, err := store.AppendCandidate(ctx, "0xadmin", election.ID, entities.Candidate{Name: name}, 20); err != nil {
			t.Fatalf("append candidate failed: %v", err)
		}
	}
	return store, election.ID
}

func castBallot(t *testing.T, store *memory.Store, electionID uint64, voter string, candidateID uint64) {
	t.Helper()
	ctx := context.Background()
	if err := store.RegisterVoter(ctx, "0xadmin", electionID, voter, 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	if _, err := store.RecordBallot(ctx, electionID, voter, candidateID, 150); err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}
}

func TestResultsRankByVotesWithStableTies(t *testing.T) {
	store, electionID := resultsFixture(t)
	uc := ResultsUseCase{Elections: store, Candidates: store, Clock: fixedClock{now: 160}}

	// carol takes two votes, alice and bob tie on one each.
	castBallot(t, store, electionID, "0xv1", 3)
	castBallot(t, store, electionID, "0xv2", 3)
	castBallot(t, store, electionID, "0xv3", 1)
	castBallot(t, store, electionID, "0xv4", 2)

	results, err := uc.Execute(context.Background(), electionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	wantOrder := []uint64{3, 1, 2}
	if len(results.Candidates) != len(wantOrder) {
		t.Fatalf("expected %d candidates, got %d", len(wantOrder), len(results.Candidates))
	}
	for i, want := range wantOrder {
		if results.Candidates[i].ID != want {
			t.Fatalf("expected candidate %d at rank %d, got %d", want, i, results.Candidates[i].ID)
		}
	}
	if results.Election.TotalVotes != 4 {
		t.Fatalf("expected 4 total votes, got %d", results.Election.TotalVotes)
	}
	if !results.LastUpdate.Equal(time.Unix(160, 0).UTC()) {
		t.Fatalf("unexpected last update %v", results.LastUpdate)
	}
}

func TestResultsAllZeroKeepRegistrationOrder(t *testing.T) {
	store, electionID := resultsFixture(t)
	uc := ResultsUseCase{Elections: store, Candidates: store, Clock: fixedClock{now: 160}}

	results, err := uc.Execute(context.Background(), electionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	for i, candidate := range results.Candidates {
		if candidate.ID != uint64(i+1) {
			t.Fatalf("expected registration order, got %+v", results.Candidates)
		}
	}
}

func TestResultsUnknownElection(t *testing.T) {
	store, _ := resultsFixture(t)
	uc := ResultsUseCase{Elections: store, Candidates: store, Clock: fixedClock{now: 160}}

	_, err := uc.Execute(context.Background(), 404)
	if !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

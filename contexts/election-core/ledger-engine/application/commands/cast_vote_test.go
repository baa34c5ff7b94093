package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/adapters/memory"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
)

type voteFixture struct {
	store      *memory.Store
	clock      *fakeClock
	cast       CastVoteUseCase
	electionID uint64
}

func newVoteFixture(t *testing.T) voteFixture {
	t.Helper()
	store := memory.NewStore("0xadmin")
	clock := &fakeClock{now: 150}

	election, err := store.InsertElection(context.Background(), "0xadmin", entities.Election{
		Name:      "general",
		StartTime: 100,
		EndTime:   200,
		Creator:   "0xadmin",
	}, 10)
	if err != nil {
		t.Fatalf("insert election failed: %v", err)
	}
	for _, name := range []string{"alice", "bob"} {
		if _, err := store.AppendCandidate(context.Background(), "0xadmin", election.ID, entities.Candidate{Name: name}, 20); err != nil {
			t.Fatalf("append candidate failed: %v", err)
		}
	}
	if err := store.RegisterVoter(context.Background(), "0xadmin", election.ID, "0xvoter", 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}

	return voteFixture{
		store:      store,
		clock:      clock,
		cast:       CastVoteUseCase{Voters: store, Clock: clock},
		electionID: election.ID,
	}
}

func TestCastVoteRecordsBallotOnce(t *testing.T) {
	fx := newVoteFixture(t)

	ballot, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter:       "0xVoter",
		ElectionID:  fx.electionID,
		CandidateID: 2,
	})
	if err != nil {
		t.Fatalf("cast vote failed: %v", err)
	}
	if ballot.Account != "0xvoter" {
		t.Fatalf("expected normalized account, got %q", ballot.Account)
	}
	if ballot.Choice != 2 || ballot.CastAt != 150 {
		t.Fatalf("unexpected ballot %+v", ballot)
	}

	_, err = fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter:       "0xvoter",
		ElectionID:  fx.electionID,
		CandidateID: 1,
	})
	if !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	election, err := fx.store.GetElection(context.Background(), fx.electionID)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if election.TotalVotes != 1 {
		t.Fatalf("expected exactly one counted vote, got %d", election.TotalVotes)
	}
}

func TestCastVoteWindowEdgesAreInclusive(t *testing.T) {
	fx := newVoteFixture(t)

	fx.clock.now = 99
	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "0xvoter", ElectionID: fx.electionID, CandidateID: 1,
	}); !errors.Is(err, domainerrors.ErrElectionNotStarted) {
		t.Fatalf("expected ErrElectionNotStarted, got %v", err)
	}

	fx.clock.now = 100
	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "0xvoter", ElectionID: fx.electionID, CandidateID: 1,
	}); err != nil {
		t.Fatalf("vote at start edge failed: %v", err)
	}

	if err := fx.store.RegisterVoter(context.Background(), "0xadmin", fx.electionID, "0xlate", 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}

	fx.clock.now = 201
	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "0xlate", ElectionID: fx.electionID, CandidateID: 1,
	}); !errors.Is(err, domainerrors.ErrElectionEnded) {
		t.Fatalf("expected ErrElectionEnded, got %v", err)
	}

	fx.clock.now = 200
	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "0xlate", ElectionID: fx.electionID, CandidateID: 1,
	}); err != nil {
		t.Fatalf("vote at end edge failed: %v", err)
	}
}

func TestCastVoteRejectsIneligibleAndUnknown(t *testing.T) {
	fx := newVoteFixture(t)

	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "0xstranger", ElectionID: fx.electionID, CandidateID: 1,
	}); !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}

	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "0xvoter", ElectionID: 404, CandidateID: 1,
	}); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}

	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "0xvoter", ElectionID: fx.electionID, CandidateID: 3,
	}); !errors.Is(err, domainerrors.ErrInvalidCandidate) {
		t.Fatalf("expected ErrInvalidCandidate, got %v", err)
	}

	if _, err := fx.cast.Execute(context.Background(), CastVoteCommand{
		Voter: "   ", ElectionID: fx.electionID, CandidateID: 1,
	}); !errors.Is(err, domainerrors.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
)

const seedAdmin = "0xadmin"

func newElection(t *testing.T, store *Store, start int64, end int64) entities.Election {
	t.Helper()
	election, err := store.InsertElection(context.Background(), seedAdmin, entities.Election{
		Name:      "general",
		StartTime: start,
		EndTime:   end,
		Creator:   seedAdmin,
	}, 10)
	if err != nil {
		t.Fatalf("insert election failed: %v", err)
	}
	return election
}

func addCandidate(t *testing.T, store *Store, electionID uint64, name string) entities.Candidate {
	t.Helper()
	candidate, err := store.AppendCandidate(context.Background(), seedAdmin, electionID, entities.Candidate{Name: name}, 20)
	if err != nil {
		t.Fatalf("append candidate failed: %v", err)
	}
	return candidate
}

func TestInsertElectionAssignsSequentialIDs(t *testing.T) {
	store := NewStore(seedAdmin)

	first := newElection(t, store, 100, 200)
	second := newElection(t, store, 100, 200)

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if !first.IsActive {
		t.Fatalf("expected new election to be active")
	}

	_, err := store.GetElection(context.Background(), 99)
	if !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestToggleElectionMaintainsActiveList(t *testing.T) {
	store := NewStore(seedAdmin)
	ctx := context.Background()

	first := newElection(t, store, 100, 200)
	second := newElection(t, store, 100, 200)

	toggled, err := store.ToggleElection(ctx, seedAdmin, first.ID, 150)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if toggled.IsActive {
		t.Fatalf("expected election deactivated")
	}

	active, err := store.ListActiveElections(ctx)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != second.ID {
		t.Fatalf("expected only election %d active, got %+v", second.ID, active)
	}

	// Reactivate twice through a toggle pair; the live filter must still
	// report each active election exactly once.
	if _, err := store.ToggleElection(ctx, seedAdmin, first.ID, 151); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}
	if _, err := store.ToggleElection(ctx, seedAdmin, first.ID, 152); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := store.ToggleElection(ctx, seedAdmin, first.ID, 153); err != nil {
		t.Fatalf("reactivate failed: %v", err)
	}

	active, err = store.ListActiveElections(ctx)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	seen := map[uint64]int{}
	for _, election := range active {
		seen[election.ID]++
	}
	if seen[first.ID] != 1 || seen[second.ID] != 1 {
		t.Fatalf("expected each active election listed once, got %v", seen)
	}
	// The toggle history appended first after second; listing stays by id.
	for i := 1; i < len(active); i++ {
		if active[i-1].ID >= active[i].ID {
			t.Fatalf("expected ascending id order, got %+v", active)
		}
	}

	if _, err := store.ToggleElection(ctx, seedAdmin, 404, 150); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestAppendCandidateAssignsPerElectionIDs(t *testing.T) {
	store := NewStore(seedAdmin)

	first := newElection(t, store, 100, 200)
	second := newElection(t, store, 100, 200)

	a := addCandidate(t, store, first.ID, "alice")
	b := addCandidate(t, store, first.ID, "bob")
	c := addCandidate(t, store, second.ID, "carol")

	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected candidate ids 1 and 2, got %d and %d", a.ID, b.ID)
	}
	if c.ID != 1 {
		t.Fatalf("expected per-election numbering to restart at 1, got %d", c.ID)
	}

	election, err := store.GetElection(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if election.CandidateCount != 2 {
		t.Fatalf("expected candidate count 2, got %d", election.CandidateCount)
	}
}

func TestRecordBallotPreconditionChain(t *testing.T) {
	store := NewStore(seedAdmin)
	ctx := context.Background()

	election := newElection(t, store, 100, 200)
	addCandidate(t, store, election.ID, "alice")
	addCandidate(t, store, election.ID, "bob")

	if _, err := store.RecordBallot(ctx, 404, "0xv1", 1, 150); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}

	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 1, 150); !errors.Is(err, domainerrors.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}

	if err := store.RegisterVoter(ctx, seedAdmin, election.ID, "0xv1", 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}

	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 1, 99); !errors.Is(err, domainerrors.ErrElectionNotStarted) {
		t.Fatalf("expected ErrElectionNotStarted, got %v", err)
	}
	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 1, 201); !errors.Is(err, domainerrors.ErrElectionEnded) {
		t.Fatalf("expected ErrElectionEnded, got %v", err)
	}
	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 3, 150); !errors.Is(err, domainerrors.ErrInvalidCandidate) {
		t.Fatalf("expected ErrInvalidCandidate, got %v", err)
	}
	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 0, 150); !errors.Is(err, domainerrors.ErrInvalidCandidate) {
		t.Fatalf("expected ErrInvalidCandidate for id 0, got %v", err)
	}

	// Window edges are inclusive.
	ballot, err := store.RecordBallot(ctx, election.ID, "0xv1", 2, 100)
	if err != nil {
		t.Fatalf("vote at start edge failed: %v", err)
	}
	if ballot.Choice != 2 || !ballot.HasVoted {
		t.Fatalf("unexpected ballot %+v", ballot)
	}

	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 2, 150); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}

	if err := store.RegisterVoter(ctx, seedAdmin, election.ID, "0xv2", 90); err != nil {
		t.Fatalf("register second voter failed: %v", err)
	}
	if _, err := store.RecordBallot(ctx, election.ID, "0xv2", 1, 200); err != nil {
		t.Fatalf("vote at end edge failed: %v", err)
	}

	updated, err := store.GetElection(ctx, election.ID)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if updated.TotalVotes != 2 {
		t.Fatalf("expected 2 total votes, got %d", updated.TotalVotes)
	}

	candidates, err := store.ListCandidates(ctx, election.ID)
	if err != nil {
		t.Fatalf("list candidates failed: %v", err)
	}
	if candidates[0].VoteCount != 1 || candidates[1].VoteCount != 1 {
		t.Fatalf("unexpected vote counts %+v", candidates)
	}
}

func TestRecordBallotRejectedOnInactiveElection(t *testing.T) {
	store := NewStore(seedAdmin)
	ctx := context.Background()

	election := newElection(t, store, 100, 200)
	addCandidate(t, store, election.ID, "alice")
	if err := store.RegisterVoter(ctx, seedAdmin, election.ID, "0xv1", 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	if _, err := store.ToggleElection(ctx, seedAdmin, election.ID, 110); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 1, 150); !errors.Is(err, domainerrors.ErrElectionNotActive) {
		t.Fatalf("expected ErrElectionNotActive, got %v", err)
	}

	// Rejected votes must leave counters untouched.
	after, err := store.GetElection(ctx, election.ID)
	if err != nil {
		t.Fatalf("get election failed: %v", err)
	}
	if after.TotalVotes != 0 {
		t.Fatalf("expected no votes, got %d", after.TotalVotes)
	}
}

func TestRegisterVoterDuplicateFails(t *testing.T) {
	store := NewStore(seedAdmin)
	ctx := context.Background()

	election := newElection(t, store, 100, 200)
	if err := store.RegisterVoter(ctx, seedAdmin, election.ID, "0xv1", 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	if err := store.RegisterVoter(ctx, seedAdmin, election.ID, "0xv1", 91); !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if err := store.RegisterVoter(ctx, seedAdmin, 404, "0xv1", 90); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}
}

func TestAdminSetGuards(t *testing.T) {
	store := NewStore(seedAdmin)
	ctx := context.Background()

	if err := store.RemoveAdmin(ctx, seedAdmin, seedAdmin, 10); !errors.Is(err, domainerrors.ErrSelfRemoval) {
		t.Fatalf("expected ErrSelfRemoval, got %v", err)
	}
	if err := store.RemoveAdmin(ctx, seedAdmin, "0xnobody", 10); !errors.Is(err, domainerrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	if _, err := store.AddAdmin(ctx, seedAdmin, "0xsecond", 11); err != nil {
		t.Fatalf("add admin failed: %v", err)
	}
	if _, err := store.AddAdmin(ctx, seedAdmin, "0xsecond", 12); !errors.Is(err, domainerrors.ErrAlreadyAdmin) {
		t.Fatalf("expected ErrAlreadyAdmin, got %v", err)
	}

	if err := store.RemoveAdmin(ctx, "0xsecond", seedAdmin, 13); err != nil {
		t.Fatalf("remove admin failed: %v", err)
	}
	// One member left; the minimum-membership guard holds regardless of
	// which rule fires first.
	if err := store.RemoveAdmin(ctx, "0xthird", "0xsecond", 14); !errors.Is(err, domainerrors.ErrNotAdmin) && !errors.Is(err, domainerrors.ErrLastAdmin) {
		t.Fatalf("expected membership guard, got %v", err)
	}

	isAdmin, err := store.IsAdmin(ctx, "0xsecond")
	if err != nil || !isAdmin {
		t.Fatalf("expected 0xsecond to remain admin, got %v %v", isAdmin, err)
	}
}

func TestAuditLogRecordsEveryMutationInOrder(t *testing.T) {
	store := NewStore(seedAdmin)
	ctx := context.Background()

	election := newElection(t, store, 100, 200)
	addCandidate(t, store, election.ID, "alice")
	if err := store.RegisterVoter(ctx, seedAdmin, election.ID, "0xv1", 90); err != nil {
		t.Fatalf("register voter failed: %v", err)
	}
	if _, err := store.RecordBallot(ctx, election.ID, "0xv1", 1, 150); err != nil {
		t.Fatalf("record ballot failed: %v", err)
	}

	entries, err := store.ListAudit(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list audit failed: %v", err)
	}
	wantTypes := []entities.EventType{
		entities.EventElectionCreated,
		entities.EventCandidateAdded,
		entities.EventVoterRegistered,
		entities.EventVoteCast,
	}
	if len(entries) != len(wantTypes) {
		t.Fatalf("expected %d entries, got %d", len(wantTypes), len(entries))
	}
	// Every entry carries the mutation time, not a scheduled window edge.
	wantAt := []int64{10, 20, 90, 150}
	for i, entry := range entries {
		if entry.Seq != uint64(i+1) {
			t.Fatalf("expected seq %d, got %d", i+1, entry.Seq)
		}
		if entry.Type != wantTypes[i] {
			t.Fatalf("expected type %s at seq %d, got %s", wantTypes[i], i+1, entry.Type)
		}
		if entry.OccurredAt != wantAt[i] {
			t.Fatalf("expected occurred_at %d at seq %d, got %d", wantAt[i], i+1, entry.OccurredAt)
		}
	}

	// Returned payloads are detached copies; mutating one must not rewrite
	// the stored history.
	entries[0].Data["name"] = "tampered"
	reread, err := store.ListAudit(ctx, 0, 1)
	if err != nil {
		t.Fatalf("list audit failed: %v", err)
	}
	if reread[0].Data["name"] != "general" {
		t.Fatalf("expected stored payload untouched, got %v", reread[0].Data["name"])
	}

	page, err := store.ListAudit(ctx, 2, 10)
	if err != nil {
		t.Fatalf("list audit page failed: %v", err)
	}
	if len(page) != 2 || page[0].Seq != 3 {
		t.Fatalf("expected entries after seq 2, got %+v", page)
	}
}

func TestAuditPublishCursor(t *testing.T) {
	store := NewStore(seedAdmin)
	ctx := context.Background()

	election := newElection(t, store, 100, 200)
	addCandidate(t, store, election.ID, "alice")

	pending, err := store.ListUnpublishedAudit(ctx, 10)
	if err != nil {
		t.Fatalf("list unpublished failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending entries, got %d", len(pending))
	}

	if err := store.MarkAuditPublished(ctx, pending[0].Seq, time.Unix(500, 0)); err != nil {
		t.Fatalf("mark published failed: %v", err)
	}
	pending, err = store.ListUnpublishedAudit(ctx, 10)
	if err != nil {
		t.Fatalf("list unpublished failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Seq != 2 {
		t.Fatalf("expected only seq 2 pending, got %+v", pending)
	}

	if err := store.MarkAuditPublished(ctx, 99, time.Unix(500, 0)); !errors.Is(err, domainerrors.ErrAuditEntryNotFound) {
		t.Fatalf("expected ErrAuditEntryNotFound, got %v", err)
	}
}

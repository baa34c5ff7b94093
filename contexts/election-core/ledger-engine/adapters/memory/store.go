package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/valueobjects"
)

type ballotKey struct {
	electionID uint64
	account    string
}

// Store is the in-memory ledger adapter. One write lock serializes every
// mutation, so each mutating method validates, mutates, and appends its audit
// entry as a single unit. It backs tests, local wiring, and the single-node
// deployment mode.
type Store struct {
	mu sync.RWMutex

	admins      map[string]entities.AdminRecord
	elections   map[uint64]entities.Election
	candidates  map[uint64][]entities.Candidate
	eligibility map[ballotKey]bool
	ballots     map[ballotKey]entities.Ballot

	// activeIndex speeds up active-election filtering; it may hold stale or
	// duplicate ids and is never authoritative over the election records.
	activeIndex []uint64

	audit     []entities.AuditEntry
	published map[uint64]bool

	electionSeq uint64
	auditSeq    uint64
}

// NewStore seeds the admin set with the given account. The seed keeps the
// never-empty invariant anchored from the first operation on.
func NewStore(seedAdmin string) *Store {
	s := &Store{
		admins:      make(map[string]entities.AdminRecord),
		elections:   make(map[uint64]entities.Election),
		candidates:  make(map[uint64][]entities.Candidate),
		eligibility: make(map[ballotKey]bool),
		ballots:     make(map[ballotKey]entities.Ballot),
		published:   make(map[uint64]bool),
	}
	if seed := valueobjects.NormalizeAccount(seedAdmin); seed != "" {
		s.admins[seed] = entities.AdminRecord{Account: seed, AddedBy: seed}
	}
	return s
}

func (s *Store) InsertElection(_ context.Context, actor string, election entities.Election, at int64) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.electionSeq++
	election.ID = s.electionSeq
	election.IsActive = true
	election.TotalVotes = 0
	election.CandidateCount = 0
	s.elections[election.ID] = election
	s.activeIndex = append(s.activeIndex, election.ID)

	s.appendAuditLocked(entities.EventElectionCreated, election.ID, actor, at, map[string]any{
		"election_id": election.ID,
		"name":        election.Name,
		"description": election.Description,
		"start_time":  election.StartTime,
		"end_time":    election.EndTime,
		"creator":     election.Creator,
	})
	return election, nil
}

func (s *Store) GetElection(_ context.Context, electionID uint64) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[electionID]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return election, nil
}

func (s *Store) ListElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Election, 0, len(s.elections))
	for id := uint64(1); id <= s.electionSeq; id++ {
		if election, ok := s.elections[id]; ok {
			items = append(items, election)
		}
	}
	return items, nil
}

func (s *Store) ListActiveElections(_ context.Context) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uint64]bool, len(s.activeIndex))
	items := make([]entities.Election, 0, len(s.activeIndex))
	for _, id := range s.activeIndex {
		if seen[id] {
			continue
		}
		seen[id] = true
		election, ok := s.elections[id]
		if !ok || !election.IsActive {
			continue
		}
		items = append(items, election)
	}
	// The index is append-ordered by toggle history; callers see ascending id.
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ToggleElection(_ context.Context, actor string, electionID uint64, at int64) (entities.Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	election, ok := s.elections[electionID]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	election.IsActive = !election.IsActive
	s.elections[electionID] = election

	if election.IsActive {
		s.activeIndex = append(s.activeIndex, electionID)
	} else {
		filtered := s.activeIndex[:0]
		for _, id := range s.activeIndex {
			if id != electionID {
				filtered = append(filtered, id)
			}
		}
		s.activeIndex = filtered
	}

	s.appendAuditLocked(entities.EventElectionStatusChanged, electionID, actor, at, map[string]any{
		"election_id": electionID,
		"is_active":   election.IsActive,
	})
	return election, nil
}

func (s *Store) AppendCandidate(_ context.Context, actor string, electionID uint64, candidate entities.Candidate, at int64) (entities.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	election, ok := s.elections[electionID]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrElectionNotFound
	}

	election.CandidateCount++
	candidate.ElectionID = electionID
	candidate.ID = election.CandidateCount
	candidate.VoteCount = 0
	s.elections[electionID] = election
	s.candidates[electionID] = append(s.candidates[electionID], candidate)

	s.appendAuditLocked(entities.EventCandidateAdded, electionID, actor, at, map[string]any{
		"election_id":  electionID,
		"candidate_id": candidate.ID,
		"name":         candidate.Name,
		"party":        candidate.Party,
		"image_url":    candidate.ImageURL,
	})
	return candidate, nil
}

func (s *Store) ListCandidates(_ context.Context, electionID uint64) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.elections[electionID]; !ok {
		return nil, domainerrors.ErrElectionNotFound
	}
	items := make([]entities.Candidate, len(s.candidates[electionID]))
	copy(items, s.candidates[electionID])
	return items, nil
}

func (s *Store) RegisterVoter(_ context.Context, actor string, electionID uint64, account string, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.elections[electionID]; !ok {
		return domainerrors.ErrElectionNotFound
	}
	key := ballotKey{electionID: electionID, account: account}
	if s.eligibility[key] {
		return domainerrors.ErrAlreadyRegistered
	}
	s.eligibility[key] = true

	s.appendAuditLocked(entities.EventVoterRegistered, electionID, actor, at, map[string]any{
		"election_id": electionID,
		"voter":       account,
	})
	return nil
}

func (s *Store) IsEligible(_ context.Context, electionID uint64, account string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eligibility[ballotKey{electionID: electionID, account: account}], nil
}

func (s *Store) GetBallot(_ context.Context, electionID uint64, account string) (entities.Ballot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ballot, ok := s.ballots[ballotKey{electionID: electionID, account: account}]
	return ballot, ok, nil
}

// RecordBallot runs the whole precondition chain before touching any state,
// then applies ballot, counters, and audit entry under the one write lock.
func (s *Store) RecordBallot(_ context.Context, electionID uint64, account string, candidateID uint64, at int64) (entities.Ballot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	election, ok := s.elections[electionID]
	if !ok {
		return entities.Ballot{}, domainerrors.ErrElectionNotFound
	}
	if !election.IsActive {
		return entities.Ballot{}, domainerrors.ErrElectionNotActive
	}
	if at < election.StartTime {
		return entities.Ballot{}, domainerrors.ErrElectionNotStarted
	}
	if at > election.EndTime {
		return entities.Ballot{}, domainerrors.ErrElectionEnded
	}
	key := ballotKey{electionID: electionID, account: account}
	if !s.eligibility[key] {
		return entities.Ballot{}, domainerrors.ErrNotEligible
	}
	if existing, voted := s.ballots[key]; voted && existing.HasVoted {
		return entities.Ballot{}, domainerrors.ErrAlreadyVoted
	}
	if candidateID < 1 || candidateID > election.CandidateCount {
		return entities.Ballot{}, domainerrors.ErrInvalidCandidate
	}

	ballot := entities.Ballot{
		ElectionID: electionID,
		Account:    account,
		HasVoted:   true,
		Choice:     candidateID,
		CastAt:     at,
	}
	s.ballots[key] = ballot

	candidates := s.candidates[electionID]
	candidates[candidateID-1].VoteCount++
	election.TotalVotes++
	s.elections[electionID] = election

	s.appendAuditLocked(entities.EventVoteCast, electionID, account, at, map[string]any{
		"election_id":  electionID,
		"candidate_id": candidateID,
		"voter":        account,
	})
	return ballot, nil
}

func (s *Store) IsAdmin(_ context.Context, account string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.admins[account]
	return ok, nil
}

func (s *Store) AddAdmin(_ context.Context, actor string, account string, at int64) (entities.AdminRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[account]; ok {
		return entities.AdminRecord{}, domainerrors.ErrAlreadyAdmin
	}
	record := entities.AdminRecord{Account: account, AddedBy: actor, AddedAt: at}
	s.admins[account] = record

	s.appendAuditLocked(entities.EventAdminAdded, 0, actor, at, map[string]any{
		"account":  account,
		"added_by": actor,
	})
	return record, nil
}

func (s *Store) RemoveAdmin(_ context.Context, actor string, account string, at int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account == actor {
		return domainerrors.ErrSelfRemoval
	}
	if _, ok := s.admins[account]; !ok {
		return domainerrors.ErrNotAdmin
	}
	// Unreachable while self-removal is blocked, but kept explicit so the
	// never-empty invariant does not depend on rule interplay.
	if len(s.admins) <= 1 {
		return domainerrors.ErrLastAdmin
	}
	delete(s.admins, account)

	s.appendAuditLocked(entities.EventAdminRemoved, 0, actor, at, map[string]any{
		"account":    account,
		"removed_by": actor,
	})
	return nil
}

func (s *Store) ListAdmins(_ context.Context) ([]entities.AdminRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.AdminRecord, 0, len(s.admins))
	for _, record := range s.admins {
		items = append(items, record)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AddedAt == items[j].AddedAt {
			return items[i].Account < items[j].Account
		}
		return items[i].AddedAt < items[j].AddedAt
	})
	return items, nil
}

func (s *Store) ListAudit(_ context.Context, afterSeq uint64, limit int) ([]entities.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.AuditEntry, 0, limit)
	for _, entry := range s.audit {
		if entry.Seq <= afterSeq {
			continue
		}
		items = append(items, copyAuditEntry(entry))
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) ListUnpublishedAudit(_ context.Context, limit int) ([]entities.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]entities.AuditEntry, 0, limit)
	for _, entry := range s.audit {
		if s.published[entry.Seq] {
			continue
		}
		items = append(items, copyAuditEntry(entry))
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// copyAuditEntry detaches the payload map so callers cannot rewrite the
// stored history through a returned entry.
func copyAuditEntry(entry entities.AuditEntry) entities.AuditEntry {
	data := make(map[string]any, len(entry.Data))
	for key, value := range entry.Data {
		data[key] = value
	}
	entry.Data = data
	return entry
}

func (s *Store) MarkAuditPublished(_ context.Context, seq uint64, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq == 0 || seq > s.auditSeq {
		return domainerrors.ErrAuditEntryNotFound
	}
	s.published[seq] = true
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) appendAuditLocked(eventType entities.EventType, electionID uint64, actor string, at int64, data map[string]any) {
	s.auditSeq++
	s.audit = append(s.audit, entities.AuditEntry{
		Seq:        s.auditSeq,
		Type:       eventType,
		ElectionID: electionID,
		Actor:      actor,
		OccurredAt: at,
		Data:       data,
	})
}

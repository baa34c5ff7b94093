package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	domainerrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the durable ledger adapter. Every mutating method runs inside
// one transaction that locks the rows it reads, applies the change, and
// appends the audit entry, matching the in-memory adapter's single-sequencer
// semantics.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) InsertElection(ctx context.Context, actor string, election entities.Election, at int64) (entities.Election, error) {
	row := electionModelFromEntity(election)
	row.IsActive = true
	row.TotalVotes = 0
	row.CandidateCount = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return appendAudit(tx, entities.AuditEntry{
			Type:       entities.EventElectionCreated,
			ElectionID: row.ID,
			Actor:      actor,
			OccurredAt: at,
			Data: map[string]any{
				"election_id": row.ID,
				"name":        row.Name,
				"description": row.Description,
				"start_time":  row.StartTime,
				"end_time":    row.EndTime,
				"creator":     row.Creator,
			},
		})
	})
	if err != nil {
		return entities.Election{}, r.logError("ledger_repo_insert_election_failed", err,
			"name", election.Name,
			"creator", election.Creator,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetElection(ctx context.Context, electionID uint64) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", electionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("ledger_repo_get_election_failed", err, "election_id", electionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_elections_failed", err)
	}
	return toElectionEntities(rows), nil
}

func (r *Repository) ListActiveElections(ctx context.Context) ([]entities.Election, error) {
	var rows []electionModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_active_elections_failed", err)
	}
	return toElectionEntities(rows), nil
}

func (r *Repository) ToggleElection(ctx context.Context, actor string, electionID uint64, at int64) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", electionID).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrElectionNotFound
			}
			return err
		}
		row.IsActive = !row.IsActive
		if err := tx.Model(&electionModel{}).
			Where("id = ?", electionID).
			Update("is_active", row.IsActive).Error; err != nil {
			return err
		}
		return appendAudit(tx, entities.AuditEntry{
			Type:       entities.EventElectionStatusChanged,
			ElectionID: electionID,
			Actor:      actor,
			OccurredAt: at,
			Data: map[string]any{
				"election_id": electionID,
				"is_active":   row.IsActive,
			},
		})
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return entities.Election{}, err
		}
		return entities.Election{}, r.logError("ledger_repo_toggle_election_failed", err, "election_id", electionID)
	}
	return row.toEntity(), nil
}

func (r *Repository) AppendCandidate(ctx context.Context, actor string, electionID uint64, candidate entities.Candidate, at int64) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election electionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", electionID).
			First(&election).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrElectionNotFound
			}
			return err
		}
		election.CandidateCount++
		row = candidateModel{
			ElectionID:  electionID,
			CandidateID: election.CandidateCount,
			Name:        candidate.Name,
			Party:       candidate.Party,
			ImageURL:    candidate.ImageURL,
			VoteCount:   0,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Model(&electionModel{}).
			Where("id = ?", electionID).
			Update("candidate_count", election.CandidateCount).Error; err != nil {
			return err
		}
		return appendAudit(tx, entities.AuditEntry{
			Type:       entities.EventCandidateAdded,
			ElectionID: electionID,
			Actor:      actor,
			OccurredAt: at,
			Data: map[string]any{
				"election_id":  electionID,
				"candidate_id": row.CandidateID,
				"name":         row.Name,
				"party":        row.Party,
				"image_url":    row.ImageURL,
			},
		})
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) {
			return entities.Candidate{}, err
		}
		return entities.Candidate{}, r.logError("ledger_repo_append_candidate_failed", err,
			"election_id", electionID,
			"name", candidate.Name,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context, electionID uint64) ([]entities.Candidate, error) {
	if _, err := r.GetElection(ctx, electionID); err != nil {
		return nil, err
	}
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Order("candidate_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_candidates_failed", err, "election_id", electionID)
	}
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) RegisterVoter(ctx context.Context, actor string, electionID uint64, account string, at int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election electionModel
		if err := tx.Where("id = ?", electionID).First(&election).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrElectionNotFound
			}
			return err
		}
		row := eligibilityModel{
			ElectionID:   electionID,
			Account:      account,
			RegisteredAt: at,
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyRegistered
			}
			return err
		}
		return appendAudit(tx, entities.AuditEntry{
			Type:       entities.EventVoterRegistered,
			ElectionID: electionID,
			Actor:      actor,
			OccurredAt: at,
			Data: map[string]any{
				"election_id": electionID,
				"voter":       account,
			},
		})
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrElectionNotFound) || errors.Is(err, domainerrors.ErrAlreadyRegistered) {
			return err
		}
		return r.logError("ledger_repo_register_voter_failed", err,
			"election_id", electionID,
			"voter", account,
		)
	}
	return nil
}

func (r *Repository) IsEligible(ctx context.Context, electionID uint64, account string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&eligibilityModel{}).
		Where("election_id = ?", electionID).
		Where("account = ?", account).
		Count(&count).Error; err != nil {
		return false, r.logError("ledger_repo_is_eligible_failed", err,
			"election_id", electionID,
			"voter", account,
		)
	}
	return count > 0, nil
}

func (r *Repository) GetBallot(ctx context.Context, electionID uint64, account string) (entities.Ballot, bool, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("election_id = ?", electionID).
		Where("account = ?", account).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, false, nil
		}
		return entities.Ballot{}, false, r.logError("ledger_repo_get_ballot_failed", err,
			"election_id", electionID,
			"voter", account,
		)
	}
	return row.toEntity(), true, nil
}

// RecordBallot evaluates the vote precondition chain against rows locked FOR
// UPDATE, so concurrent votes for one election serialize on the election row.
func (r *Repository) RecordBallot(ctx context.Context, electionID uint64, account string, candidateID uint64, at int64) (entities.Ballot, error) {
	var ballot ballotModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var election electionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", electionID).
			First(&election).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrElectionNotFound
			}
			return err
		}
		if !election.IsActive {
			return domainerrors.ErrElectionNotActive
		}
		if at < election.StartTime {
			return domainerrors.ErrElectionNotStarted
		}
		if at > election.EndTime {
			return domainerrors.ErrElectionEnded
		}

		var eligible int64
		if err := tx.Model(&eligibilityModel{}).
			Where("election_id = ?", electionID).
			Where("account = ?", account).
			Count(&eligible).Error; err != nil {
			return err
		}
		if eligible == 0 {
			return domainerrors.ErrNotEligible
		}

		var voted int64
		if err := tx.Model(&ballotModel{}).
			Where("election_id = ?", electionID).
			Where("account = ?", account).
			Count(&voted).Error; err != nil {
			return err
		}
		if voted > 0 {
			return domainerrors.ErrAlreadyVoted
		}
		if candidateID < 1 || candidateID > election.CandidateCount {
			return domainerrors.ErrInvalidCandidate
		}

		ballot = ballotModel{
			ElectionID:  electionID,
			Account:     account,
			CandidateID: candidateID,
			CastAt:      at,
		}
		if err := tx.Create(&ballot).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyVoted
			}
			return err
		}
		if err := tx.Model(&candidateModel{}).
			Where("election_id = ?", electionID).
			Where("candidate_id = ?", candidateID).
			Update("vote_count", gorm.Expr("vote_count + 1")).Error; err != nil {
			return err
		}
		if err := tx.Model(&electionModel{}).
			Where("id = ?", electionID).
			Update("total_votes", gorm.Expr("total_votes + 1")).Error; err != nil {
			return err
		}
		return appendAudit(tx, entities.AuditEntry{
			Type:       entities.EventVoteCast,
			ElectionID: electionID,
			Actor:      account,
			OccurredAt: at,
			Data: map[string]any{
				"election_id":  electionID,
				"candidate_id": candidateID,
				"voter":        account,
			},
		})
	})
	if err != nil {
		if isBallotPrecondition(err) {
			return entities.Ballot{}, err
		}
		return entities.Ballot{}, r.logError("ledger_repo_record_ballot_failed", err,
			"election_id", electionID,
			"voter", account,
			"candidate_id", candidateID,
		)
	}
	return ballot.toEntity(), nil
}

func (r *Repository) IsAdmin(ctx context.Context, account string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&adminModel{}).
		Where("account = ?", account).
		Count(&count).Error; err != nil {
		return false, r.logError("ledger_repo_is_admin_failed", err, "account", account)
	}
	return count > 0, nil
}

func (r *Repository) AddAdmin(ctx context.Context, actor string, account string, at int64) (entities.AdminRecord, error) {
	row := adminModel{
		Account: account,
		AddedBy: actor,
		AddedAt: at,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyAdmin
			}
			return err
		}
		return appendAudit(tx, entities.AuditEntry{
			Type:       entities.EventAdminAdded,
			Actor:      actor,
			OccurredAt: at,
			Data: map[string]any{
				"account":  account,
				"added_by": actor,
			},
		})
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyAdmin) {
			return entities.AdminRecord{}, err
		}
		return entities.AdminRecord{}, r.logError("ledger_repo_add_admin_failed", err, "account", account)
	}
	return row.toEntity(), nil
}

func (r *Repository) RemoveAdmin(ctx context.Context, actor string, account string, at int64) error {
	if account == actor {
		return domainerrors.ErrSelfRemoval
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the whole set so concurrent removals cannot race past the
		// minimum-membership check.
		var rows []adminModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Find(&rows).Error; err != nil {
			return err
		}
		found := false
		for _, row := range rows {
			if row.Account == account {
				found = true
				break
			}
		}
		if !found {
			return domainerrors.ErrNotAdmin
		}
		if len(rows) <= 1 {
			return domainerrors.ErrLastAdmin
		}
		if err := tx.Where("account = ?", account).Delete(&adminModel{}).Error; err != nil {
			return err
		}
		return appendAudit(tx, entities.AuditEntry{
			Type:       entities.EventAdminRemoved,
			Actor:      actor,
			OccurredAt: at,
			Data: map[string]any{
				"account":    account,
				"removed_by": actor,
			},
		})
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotAdmin) || errors.Is(err, domainerrors.ErrLastAdmin) {
			return err
		}
		return r.logError("ledger_repo_remove_admin_failed", err, "account", account)
	}
	return nil
}

func (r *Repository) ListAdmins(ctx context.Context) ([]entities.AdminRecord, error) {
	var rows []adminModel
	if err := r.db.WithContext(ctx).
		Order("added_at ASC, account ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_admins_failed", err)
	}
	items := make([]entities.AdminRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListAudit(ctx context.Context, afterSeq uint64, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []auditModel
	if err := r.db.WithContext(ctx).
		Where("seq > ?", afterSeq).
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_audit_failed", err, "after_seq", afterSeq)
	}
	return toAuditEntries(rows)
}

func (r *Repository) ListUnpublishedAudit(ctx context.Context, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []auditModel
	if err := r.db.WithContext(ctx).
		Where("published = ?", false).
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("ledger_repo_list_unpublished_audit_failed", err, "limit", limit)
	}
	return toAuditEntries(rows)
}

func (r *Repository) MarkAuditPublished(ctx context.Context, seq uint64, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&auditModel{}).
		Where("seq = ?", seq).
		Updates(map[string]any{
			"published":    true,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("ledger_repo_mark_audit_published_failed", result.Error, "seq", seq)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAuditEntryNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "election-core/ledger-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("ledger repository operation failed", fields...)
	return err
}

func appendAudit(tx *gorm.DB, entry entities.AuditEntry) error {
	payload, err := json.Marshal(entry.Data)
	if err != nil {
		return err
	}
	row := auditModel{
		EventType:  string(entry.Type),
		ElectionID: entry.ElectionID,
		Actor:      entry.Actor,
		OccurredAt: entry.OccurredAt,
		Payload:    payload,
	}
	return tx.Create(&row).Error
}

func isBallotPrecondition(err error) bool {
	for _, target := range []error{
		domainerrors.ErrElectionNotFound,
		domainerrors.ErrElectionNotActive,
		domainerrors.ErrElectionNotStarted,
		domainerrors.ErrElectionEnded,
		domainerrors.ErrNotEligible,
		domainerrors.ErrAlreadyVoted,
		domainerrors.ErrInvalidCandidate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

type electionModel struct {
	ID             uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string `gorm:"column:name"`
	Description    string `gorm:"column:description"`
	StartTime      int64  `gorm:"column:start_time"`
	EndTime        int64  `gorm:"column:end_time"`
	IsActive       bool   `gorm:"column:is_active"`
	Creator        string `gorm:"column:creator"`
	TotalVotes     uint64 `gorm:"column:total_votes"`
	CandidateCount uint64 `gorm:"column:candidate_count"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	return electionModel{
		ID:             election.ID,
		Name:           election.Name,
		Description:    election.Description,
		StartTime:      election.StartTime,
		EndTime:        election.EndTime,
		IsActive:       election.IsActive,
		Creator:        election.Creator,
		TotalVotes:     election.TotalVotes,
		CandidateCount: election.CandidateCount,
	}
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		StartTime:      m.StartTime,
		EndTime:        m.EndTime,
		IsActive:       m.IsActive,
		Creator:        m.Creator,
		TotalVotes:     m.TotalVotes,
		CandidateCount: m.CandidateCount,
	}
}

type candidateModel struct {
	ElectionID  uint64 `gorm:"column:election_id;primaryKey"`
	CandidateID uint64 `gorm:"column:candidate_id;primaryKey"`
	Name        string `gorm:"column:name"`
	Party       string `gorm:"column:party"`
	ImageURL    string `gorm:"column:image_url"`
	VoteCount   uint64 `gorm:"column:vote_count"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		ElectionID: m.ElectionID,
		ID:         m.CandidateID,
		Name:       m.Name,
		Party:      m.Party,
		ImageURL:   m.ImageURL,
		VoteCount:  m.VoteCount,
	}
}

type eligibilityModel struct {
	ElectionID   uint64 `gorm:"column:election_id;primaryKey"`
	Account      string `gorm:"column:account;primaryKey"`
	RegisteredAt int64  `gorm:"column:registered_at"`
}

func (eligibilityModel) TableName() string {
	return "voter_eligibility"
}

type ballotModel struct {
	ElectionID  uint64 `gorm:"column:election_id;primaryKey"`
	Account     string `gorm:"column:account;primaryKey"`
	CandidateID uint64 `gorm:"column:candidate_id"`
	CastAt      int64  `gorm:"column:cast_at"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		ElectionID: m.ElectionID,
		Account:    m.Account,
		HasVoted:   true,
		Choice:     m.CandidateID,
		CastAt:     m.CastAt,
	}
}

type adminModel struct {
	Account string `gorm:"column:account;primaryKey"`
	AddedBy string `gorm:"column:added_by"`
	AddedAt int64  `gorm:"column:added_at"`
}

func (adminModel) TableName() string {
	return "ledger_admins"
}

func (m adminModel) toEntity() entities.AdminRecord {
	return entities.AdminRecord{
		Account: m.Account,
		AddedBy: m.AddedBy,
		AddedAt: m.AddedAt,
	}
}

type auditModel struct {
	Seq         uint64     `gorm:"column:seq;primaryKey;autoIncrement"`
	EventType   string     `gorm:"column:event_type"`
	ElectionID  uint64     `gorm:"column:election_id"`
	Actor       string     `gorm:"column:actor"`
	OccurredAt  int64      `gorm:"column:occurred_at"`
	Payload     []byte     `gorm:"column:payload"`
	Published   bool       `gorm:"column:published"`
	PublishedAt *time.Time `gorm:"column:published_at"`
}

func (auditModel) TableName() string {
	return "ledger_audit"
}

func toElectionEntities(rows []electionModel) []entities.Election {
	items := make([]entities.Election, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func toAuditEntries(rows []auditModel) ([]entities.AuditEntry, error) {
	items := make([]entities.AuditEntry, 0, len(rows))
	for _, row := range rows {
		data := map[string]any{}
		if len(row.Payload) > 0 {
			if err := json.Unmarshal(row.Payload, &data); err != nil {
				return nil, err
			}
		}
		items = append(items, entities.AuditEntry{
			Seq:        row.Seq,
			Type:       entities.EventType(row.EventType),
			ElectionID: row.ElectionID,
			Actor:      row.Actor,
			OccurredAt: row.OccurredAt,
			Data:       data,
		})
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.CandidateRepository = (*Repository)(nil)
var _ ports.VoterRepository = (*Repository)(nil)
var _ ports.AdminRepository = (*Repository)(nil)
var _ ports.AuditLog = (*Repository)(nil)

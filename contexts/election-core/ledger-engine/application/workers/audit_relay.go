package workers

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// AuditRelay publishes committed audit entries to the event bus so indexers
// and UIs can follow the ledger without polling full state.
type AuditRelay struct {
	Audit     ports.AuditLog
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of unpublished entries in sequence order
// and marks each entry only after broker publish succeeds. It stops on the
// first failure so the retry loop reprocesses remaining entries safely.
func (r AuditRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Audit.ListUnpublishedAudit(ctx, limit)
	if err != nil {
		logger.Error("audit relay list failed",
			"event", "ledger_audit_relay_list_failed",
			"module", "election-core/ledger-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(pending) == 0 {
		logger.Debug("audit relay found no pending entries",
			"event", "ledger_audit_relay_noop",
			"module", "election-core/ledger-engine",
			"layer", "worker",
			"batch_size", limit,
		)
		return nil
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, entry := range pending {
		envelope := envelopeFromEntry(entry)
		if err := r.Publisher.Publish(ctx, envelope.EventType, envelope); err != nil {
			logger.Error("audit relay publish failed",
				"event", "ledger_audit_relay_publish_failed",
				"module", "election-core/ledger-engine",
				"layer", "worker",
				"seq", entry.Seq,
				"event_type", string(entry.Type),
				"error", err.Error(),
			)
			return err
		}
		if err := r.Audit.MarkAuditPublished(ctx, entry.Seq, now); err != nil {
			logger.Error("audit relay mark published failed",
				"event", "ledger_audit_relay_mark_failed",
				"module", "election-core/ledger-engine",
				"layer", "worker",
				"seq", entry.Seq,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("audit relay cycle completed",
		"event", "ledger_audit_relay_completed",
		"module", "election-core/ledger-engine",
		"layer", "worker",
		"published_count", len(pending),
	)
	return nil
}

// envelopeFromEntry derives a deterministic envelope: the event id is the
// audit sequence, so replaying the same entry yields an identical publish.
func envelopeFromEntry(entry entities.AuditEntry) ports.EventEnvelope {
	payload := make(map[string]any, len(entry.Data)+2)
	for key, value := range entry.Data {
		payload[key] = value
	}
	payload["seq"] = entry.Seq
	payload["actor"] = entry.Actor

	entityType := "election"
	entityID := strconv.FormatUint(entry.ElectionID, 10)
	if entry.Type == entities.EventAdminAdded || entry.Type == entities.EventAdminRemoved {
		entityType = "admin"
		entityID = entry.Actor
	}

	return ports.EventEnvelope{
		EventID:        "audit-" + strconv.FormatUint(entry.Seq, 10),
		EventType:      string(entry.Type),
		SourceService:  "election-core/ledger-engine",
		OccurredAtUTC:  time.Unix(entry.OccurredAt, 0).UTC(),
		EntityType:     entityType,
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        payload,
	}
}

package commands

import (
	"context"
	"log/slog"
	"strings"

	application "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/ports"
)

// AddCandidateCommand registers a candidate under an existing election.
type AddCandidateCommand struct {
	Actor      string
	ElectionID uint64
	Name       string
	Party      string
	ImageURL   string
}

// AddCandidateUseCase appends a candidate with the next per-election id.
// There is no update or removal counterpart; candidate rows are immutable
// apart from their vote counters.
type AddCandidateUseCase struct {
	Candidates ports.CandidateRepository
	Admins     ports.AdminRepository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func (uc AddCandidateUseCase) Execute(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := normalizeAccount(cmd.Actor)

	if err := ensureAdmin(ctx, uc.Admins, actor); err != nil {
		logger.Warn("candidate add rejected",
			"event", "ledger_candidate_add_unauthorized",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"actor", actor,
		)
		return entities.Candidate{}, err
	}

	candidate, err := uc.Candidates.AppendCandidate(ctx, actor, cmd.ElectionID, entities.Candidate{
		ElectionID: cmd.ElectionID,
		Name:       strings.TrimSpace(cmd.Name),
		Party:      strings.TrimSpace(cmd.Party),
		ImageURL:   strings.TrimSpace(cmd.ImageURL),
	}, uc.Clock.Now().Unix())
	if err != nil {
		logger.Error("candidate add failed",
			"event", "ledger_candidate_add_failed",
			"module", "election-core/ledger-engine",
			"layer", "application",
			"election_id", cmd.ElectionID,
			"actor", actor,
			"error", err.Error(),
		)
		return entities.Candidate{}, err
	}

	logger.Info("candidate added",
		"event", "ledger_candidate_added",
		"module", "election-core/ledger-engine",
		"layer", "application",
		"election_id", cmd.ElectionID,
		"candidate_id", candidate.ID,
		"actor", actor,
	)
	return candidate, nil
}

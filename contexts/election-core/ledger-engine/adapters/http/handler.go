package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application/commands"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/application/queries"
	"github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/entities"
	httptransport "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/transport/http"
)

// Handler exposes the ledger's operations in transport-agnostic form. The
// HTTP server decodes requests, resolves the caller account, and maps domain
// errors to status codes.
type Handler struct {
	CreateElection commands.CreateElectionUseCase
	ToggleElection commands.ToggleElectionUseCase
	AddCandidate   commands.AddCandidateUseCase
	RegisterVoters commands.RegisterVoterUseCase
	CastVote       commands.CastVoteUseCase
	AddAdmin       commands.AddAdminUseCase
	RemoveAdmin    commands.RemoveAdminUseCase
	Elections      queries.ElectionQueries
	Candidates     queries.CandidateQueries
	Results        queries.ResultsUseCase
	Voters         queries.VoterQueries
	Admins         queries.AdminQueries
	Audit          queries.AuditQueries
	Logger         *slog.Logger
}

// CreateElectionHandler godoc
// @Summary Create an election
// @Description Creates a new election with a future voting window. Admin only.
// @Tags elections
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param request body httptransport.CreateElectionRequest true "Election payload"
// @Success 201 {object} httptransport.ElectionResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /elections [post]
func (h Handler) CreateElectionHandler(
	ctx context.Context,
	actor string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.CreateElection.Execute(ctx, commands.CreateElectionCommand{
		Actor:       actor,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	view, err := h.Elections.Get(ctx, election.ID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponseFromView(view), nil
}

// ToggleElectionHandler godoc
// @Summary Toggle an election's active flag
// @Description Deactivates an active election or reactivates a deactivated one. Admin only.
// @Tags elections
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param election_id path int true "Election id"
// @Success 200 {object} httptransport.ElectionResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/toggle [post]
func (h Handler) ToggleElectionHandler(ctx context.Context, actor string, electionID uint64) (httptransport.ElectionResponse, error) {
	if _, err := h.ToggleElection.Execute(ctx, commands.ToggleElectionCommand{
		Actor:      actor,
		ElectionID: electionID,
	}); err != nil {
		return httptransport.ElectionResponse{}, err
	}
	view, err := h.Elections.Get(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponseFromView(view), nil
}

// GetElectionHandler godoc
// @Summary Get an election
// @Tags elections
// @Produce json
// @Param election_id path int true "Election id"
// @Success 200 {object} httptransport.ElectionResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id} [get]
func (h Handler) GetElectionHandler(ctx context.Context, electionID uint64) (httptransport.ElectionResponse, error) {
	view, err := h.Elections.Get(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return electionResponseFromView(view), nil
}

// ListElectionsHandler godoc
// @Summary List all elections
// @Tags elections
// @Produce json
// @Success 200 {object} httptransport.ElectionListResponse
// @Router /elections [get]
func (h Handler) ListElectionsHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Elections.List(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	items := make([]httptransport.ElectionResponse, 0, len(views))
	for _, view := range views {
		items = append(items, electionResponseFromView(view))
	}
	return httptransport.ElectionListResponse{Items: items}, nil
}

// ActiveElectionsHandler godoc
// @Summary List active election ids
// @Tags elections
// @Produce json
// @Success 200 {object} httptransport.ActiveElectionsResponse
// @Router /elections/active [get]
func (h Handler) ActiveElectionsHandler(ctx context.Context) (httptransport.ActiveElectionsResponse, error) {
	ids, err := h.Elections.ActiveIDs(ctx)
	if err != nil {
		return httptransport.ActiveElectionsResponse{}, err
	}
	return httptransport.ActiveElectionsResponse{ElectionIDs: ids}, nil
}

// ElectionStatusHandler godoc
// @Summary Get an election's derived status
// @Tags elections
// @Produce json
// @Param election_id path int true "Election id"
// @Success 200 {object} httptransport.ElectionStatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/status [get]
func (h Handler) ElectionStatusHandler(ctx context.Context, electionID uint64) (httptransport.ElectionStatusResponse, error) {
	status, err := h.Elections.Status(ctx, electionID)
	if err != nil {
		return httptransport.ElectionStatusResponse{}, err
	}
	return httptransport.ElectionStatusResponse{
		ElectionID: electionID,
		Status:     string(status),
	}, nil
}

// AddCandidateHandler godoc
// @Summary Add a candidate to an election
// @Description Appends a candidate with the next sequential id. Admin only.
// @Tags candidates
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param election_id path int true "Election id"
// @Param request body httptransport.AddCandidateRequest true "Candidate payload"
// @Success 201 {object} httptransport.CandidateResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/candidates [post]
func (h Handler) AddCandidateHandler(
	ctx context.Context,
	actor string,
	electionID uint64,
	req httptransport.AddCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.AddCandidate.Execute(ctx, commands.AddCandidateCommand{
		Actor:      actor,
		ElectionID: electionID,
		Name:       req.Name,
		Party:      req.Party,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return candidateResponse(candidate), nil
}

// ListCandidatesHandler godoc
// @Summary List an election's candidates
// @Description Returns candidates in registration order.
// @Tags candidates
// @Produce json
// @Param election_id path int true "Election id"
// @Success 200 {object} httptransport.CandidateListResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/candidates [get]
func (h Handler) ListCandidatesHandler(ctx context.Context, electionID uint64) (httptransport.CandidateListResponse, error) {
	candidates, err := h.Candidates.List(ctx, electionID)
	if err != nil {
		return httptransport.CandidateListResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, candidateResponse(candidate))
	}
	return httptransport.CandidateListResponse{Items: items}, nil
}

// ElectionResultsHandler godoc
// @Summary Get an election's ranked results
// @Description Returns candidates ranked by vote count descending; ties keep registration order.
// @Tags results
// @Produce json
// @Param election_id path int true "Election id"
// @Success 200 {object} httptransport.ElectionResultsResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/results [get]
func (h Handler) ElectionResultsHandler(ctx context.Context, electionID uint64) (httptransport.ElectionResultsResponse, error) {
	results, err := h.Results.Execute(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResultsResponse{}, err
	}
	view, err := h.Elections.Get(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResultsResponse{}, err
	}
	items := make([]httptransport.CandidateResponse, 0, len(results.Candidates))
	for _, candidate := range results.Candidates {
		items = append(items, candidateResponse(candidate))
	}
	return httptransport.ElectionResultsResponse{
		Election:   electionResponseFromView(view),
		Candidates: items,
		LastUpdate: results.LastUpdate.Format(time.RFC3339),
	}, nil
}

// RegisterVoterHandler godoc
// @Summary Register one voter
// @Description Marks an account eligible for an election. Admin only. Duplicate registration fails.
// @Tags voters
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param election_id path int true "Election id"
// @Param request body httptransport.RegisterVoterRequest true "Voter payload"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/voters [post]
func (h Handler) RegisterVoterHandler(
	ctx context.Context,
	actor string,
	electionID uint64,
	req httptransport.RegisterVoterRequest,
) error {
	return h.RegisterVoters.Execute(ctx, commands.RegisterVoterCommand{
		Actor:      actor,
		ElectionID: electionID,
		Account:    req.Account,
	})
}

// RegisterVotersHandler godoc
// @Summary Register a batch of voters
// @Description Registers every not-yet-eligible account; duplicates are counted as skips, not failures. Admin only.
// @Tags voters
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param election_id path int true "Election id"
// @Param request body httptransport.RegisterVotersRequest true "Voter batch"
// @Success 200 {object} httptransport.RegisterVotersResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/voters/batch [post]
func (h Handler) RegisterVotersHandler(
	ctx context.Context,
	actor string,
	electionID uint64,
	req httptransport.RegisterVotersRequest,
) (httptransport.RegisterVotersResponse, error) {
	result, err := h.RegisterVoters.ExecuteBatch(ctx, commands.RegisterVotersCommand{
		Actor:      actor,
		ElectionID: electionID,
		Accounts:   req.Accounts,
	})
	if err != nil {
		return httptransport.RegisterVotersResponse{}, err
	}
	return httptransport.RegisterVotersResponse{
		Registered: result.Registered,
		Skipped:    result.Skipped,
	}, nil
}

// VoterStatusHandler godoc
// @Summary Get a voter's standing for an election
// @Tags voters
// @Produce json
// @Param election_id path int true "Election id"
// @Param account path string true "Voter account"
// @Success 200 {object} httptransport.VoterStatusResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/voters/{account} [get]
func (h Handler) VoterStatusHandler(ctx context.Context, electionID uint64, account string) (httptransport.VoterStatusResponse, error) {
	status, err := h.Voters.Status(ctx, electionID, account)
	if err != nil {
		return httptransport.VoterStatusResponse{}, err
	}
	return httptransport.VoterStatusResponse{
		Account:  status.Account,
		Eligible: status.Eligible,
		HasVoted: status.HasVoted,
		CanVote:  status.CanVote,
	}, nil
}

// VoterBallotHandler godoc
// @Summary Get a voter's recorded ballot
// @Tags voters
// @Produce json
// @Param election_id path int true "Election id"
// @Param account path string true "Voter account"
// @Success 200 {object} httptransport.BallotResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/voters/{account}/ballot [get]
func (h Handler) VoterBallotHandler(ctx context.Context, electionID uint64, account string) (httptransport.BallotResponse, error) {
	ballot, err := h.Voters.Choice(ctx, electionID, account)
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		ElectionID:  ballot.ElectionID,
		Account:     ballot.Account,
		CandidateID: ballot.Choice,
		CastAt:      ballot.CastAt,
	}, nil
}

// CastVoteHandler godoc
// @Summary Cast a vote
// @Description Records the caller's one-time ballot for an eligible, open election.
// @Tags voters
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param election_id path int true "Election id"
// @Param request body httptransport.VoteRequest true "Vote payload"
// @Success 201 {object} httptransport.BallotResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /elections/{election_id}/vote [post]
func (h Handler) CastVoteHandler(
	ctx context.Context,
	voter string,
	electionID uint64,
	req httptransport.VoteRequest,
) (httptransport.BallotResponse, error) {
	ballot, err := h.CastVote.Execute(ctx, commands.CastVoteCommand{
		Voter:       voter,
		ElectionID:  electionID,
		CandidateID: req.CandidateID,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return httptransport.BallotResponse{
		ElectionID:  ballot.ElectionID,
		Account:     ballot.Account,
		CandidateID: ballot.Choice,
		CastAt:      ballot.CastAt,
	}, nil
}

// AddAdminHandler godoc
// @Summary Grant admin privilege
// @Tags admins
// @Accept json
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param request body httptransport.AddAdminRequest true "Admin payload"
// @Success 201 {object} httptransport.AdminResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /admins [post]
func (h Handler) AddAdminHandler(ctx context.Context, actor string, req httptransport.AddAdminRequest) (httptransport.AdminResponse, error) {
	record, err := h.AddAdmin.Execute(ctx, commands.AddAdminCommand{
		Actor:   actor,
		Account: req.Account,
	})
	if err != nil {
		return httptransport.AdminResponse{}, err
	}
	return httptransport.AdminResponse{
		Account: record.Account,
		AddedBy: record.AddedBy,
		AddedAt: record.AddedAt,
	}, nil
}

// RemoveAdminHandler godoc
// @Summary Revoke admin privilege
// @Description Removes an admin. Self-removal and removing the last admin are rejected.
// @Tags admins
// @Produce json
// @Param X-Account-Address header string true "Caller account"
// @Param account path string true "Admin account"
// @Success 204
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /admins/{account} [delete]
func (h Handler) RemoveAdminHandler(ctx context.Context, actor string, account string) error {
	return h.RemoveAdmin.Execute(ctx, commands.RemoveAdminCommand{
		Actor:   actor,
		Account: account,
	})
}

// ListAdminsHandler godoc
// @Summary List admins
// @Tags admins
// @Produce json
// @Success 200 {object} httptransport.AdminListResponse
// @Router /admins [get]
func (h Handler) ListAdminsHandler(ctx context.Context) (httptransport.AdminListResponse, error) {
	records, err := h.Admins.List(ctx)
	if err != nil {
		return httptransport.AdminListResponse{}, err
	}
	items := make([]httptransport.AdminResponse, 0, len(records))
	for _, record := range records {
		items = append(items, httptransport.AdminResponse{
			Account: record.Account,
			AddedBy: record.AddedBy,
			AddedAt: record.AddedAt,
		})
	}
	return httptransport.AdminListResponse{Items: items}, nil
}

// CheckAdminHandler godoc
// @Summary Check admin membership
// @Tags admins
// @Produce json
// @Param account path string true "Account"
// @Success 200 {object} httptransport.AdminCheckResponse
// @Router /admins/{account} [get]
func (h Handler) CheckAdminHandler(ctx context.Context, account string) (httptransport.AdminCheckResponse, error) {
	isAdmin, err := h.Admins.IsAdmin(ctx, account)
	if err != nil {
		return httptransport.AdminCheckResponse{}, err
	}
	return httptransport.AdminCheckResponse{
		Account: account,
		IsAdmin: isAdmin,
	}, nil
}

// ListAuditHandler godoc
// @Summary Page through the audit log
// @Description Returns audit entries in sequence order, starting after the given sequence.
// @Tags audit
// @Produce json
// @Param after_seq query int false "Return entries with seq greater than this"
// @Param limit query int false "Page size (default 100)"
// @Success 200 {object} httptransport.AuditListResponse
// @Router /audit [get]
func (h Handler) ListAuditHandler(ctx context.Context, afterSeq uint64, limit int) (httptransport.AuditListResponse, error) {
	entries, err := h.Audit.List(ctx, afterSeq, limit)
	if err != nil {
		return httptransport.AuditListResponse{}, err
	}
	items := make([]httptransport.AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.AuditEntryResponse{
			Seq:        entry.Seq,
			EventType:  string(entry.Type),
			ElectionID: entry.ElectionID,
			Actor:      entry.Actor,
			OccurredAt: entry.OccurredAt,
			Data:       entry.Data,
		})
	}
	return httptransport.AuditListResponse{Items: items}, nil
}

func electionResponseFromView(view queries.ElectionView) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:     view.Election.ID,
		Name:           view.Election.Name,
		Description:    view.Election.Description,
		StartTime:      view.Election.StartTime,
		EndTime:        view.Election.EndTime,
		IsActive:       view.Election.IsActive,
		Creator:        view.Election.Creator,
		TotalVotes:     view.Election.TotalVotes,
		CandidateCount: view.Election.CandidateCount,
		Status:         string(view.Status),
	}
}

func candidateResponse(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		ElectionID:  candidate.ElectionID,
		CandidateID: candidate.ID,
		Name:        candidate.Name,
		Party:       candidate.Party,
		ImageURL:    candidate.ImageURL,
		VoteCount:   candidate.VoteCount,
	}
}

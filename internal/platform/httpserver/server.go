package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	ledgerengine "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine"
	ledgererrors "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/domain/errors"
	ledgerhttp "github.com/capri-code/eVotingSystem/contexts/election-core/ledger-engine/transport/http"

	_ "github.com/capri-code/eVotingSystem/internal/platform/httpserver/docs"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	ledger ledgerengine.Module
}

func New(ledger ledgerengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		ledger: ledger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.withRequestID(s.mux))
}

// Handler returns the full routed handler, used by in-process tests.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// withRequestID tags every request with a correlation id so log lines across
// layers can be stitched together. Upstream ids are kept when present.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		s.logger.Debug("http request received",
			"event", "http_request_received",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/v1/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/v1/elections", s.handleListElections)
	s.mux.HandleFunc("GET /api/v1/elections/active", s.handleActiveElections)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/status", s.handleElectionStatus)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/toggle", s.handleToggleElection)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/candidates", s.handleListCandidates)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/results", s.handleElectionResults)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/voters", s.handleRegisterVoter)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/voters/batch", s.handleRegisterVoters)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/voters/{account}", s.handleVoterStatus)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/voters/{account}/ballot", s.handleVoterBallot)
	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/vote", s.handleCastVote)
	s.mux.HandleFunc("GET /api/v1/admins", s.handleListAdmins)
	s.mux.HandleFunc("POST /api/v1/admins", s.handleAddAdmin)
	s.mux.HandleFunc("GET /api/v1/admins/{account}", s.handleCheckAdmin)
	s.mux.HandleFunc("DELETE /api/v1/admins/{account}", s.handleRemoveAdmin)
	s.mux.HandleFunc("GET /api/v1/audit", s.handleListAudit)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.CreateElectionHandler(r.Context(), actor, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListElectionsHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActiveElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ActiveElectionsHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.GetElectionHandler(r.Context(), electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionStatus(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.ElectionStatusHandler(r.Context(), electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggleElection(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerAccount(w, r)
	if !ok {
		return
	}
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.ToggleElectionHandler(r.Context(), actor, electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerAccount(w, r)
	if !ok {
		return
	}
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.AddCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.AddCandidateHandler(r.Context(), actor, electionID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.ListCandidatesHandler(r.Context(), electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionResults(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	resp, err := s.ledger.Handler.ElectionResultsHandler(r.Context(), electionID)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerAccount(w, r)
	if !ok {
		return
	}
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.ledger.Handler.RegisterVoterHandler(r.Context(), actor, electionID, req); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegisterVoters(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerAccount(w, r)
	if !ok {
		return
	}
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.RegisterVotersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.RegisterVotersHandler(r.Context(), actor, electionID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterStatus(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	account := r.PathValue("account")
	resp, err := s.ledger.Handler.VoterStatusHandler(r.Context(), electionID, account)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoterBallot(w http.ResponseWriter, r *http.Request) {
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	account := r.PathValue("account")
	resp, err := s.ledger.Handler.VoterBallotHandler(r.Context(), electionID, account)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	voter, ok := callerAccount(w, r)
	if !ok {
		return
	}
	electionID, ok := electionIDPath(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.CastVoteHandler(r.Context(), voter, electionID, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	resp, err := s.ledger.Handler.ListAdminsHandler(r.Context())
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerAccount(w, r)
	if !ok {
		return
	}
	var req ledgerhttp.AddAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.ledger.Handler.AddAdminHandler(r.Context(), actor, req)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCheckAdmin(w http.ResponseWriter, r *http.Request) {
	account := r.PathValue("account")
	resp, err := s.ledger.Handler.CheckAdminHandler(r.Context(), account)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	actor, ok := callerAccount(w, r)
	if !ok {
		return
	}
	account := r.PathValue("account")
	if err := s.ledger.Handler.RemoveAdminHandler(r.Context(), actor, account); err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var afterSeq uint64
	if raw := query.Get("after_seq"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeLedgerError(w, http.StatusBadRequest, "invalid_after_seq", "after_seq must be an unsigned integer")
			return
		}
		afterSeq = parsed
	}
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeLedgerError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		limit = parsed
	}
	resp, err := s.ledger.Handler.ListAuditHandler(r.Context(), afterSeq, limit)
	if err != nil {
		writeLedgerDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func callerAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	account := strings.TrimSpace(r.Header.Get("X-Account-Address"))
	if account == "" {
		writeLedgerError(w, http.StatusUnauthorized, "missing_account", "X-Account-Address header is required")
		return "", false
	}
	return account, true
}

func electionIDPath(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	electionID, err := strconv.ParseUint(r.PathValue("election_id"), 10, 64)
	if err != nil {
		writeLedgerError(w, http.StatusBadRequest, "invalid_election_id", "election_id must be an unsigned integer")
		return 0, false
	}
	return electionID, true
}

func writeLedgerDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrUnauthorized):
		writeLedgerError(w, http.StatusForbidden, "not_admin", err.Error())
	case errors.Is(err, ledgererrors.ErrElectionNotFound):
		writeLedgerError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrHasNotVoted):
		writeLedgerError(w, http.StatusNotFound, "ballot_not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidTimeRange),
		errors.Is(err, ledgererrors.ErrStartTimeInPast),
		errors.Is(err, ledgererrors.ErrInvalidCandidate),
		errors.Is(err, ledgererrors.ErrInvalidAccount):
		writeLedgerError(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
	case errors.Is(err, ledgererrors.ErrAlreadyAdmin),
		errors.Is(err, ledgererrors.ErrNotAdmin),
		errors.Is(err, ledgererrors.ErrSelfRemoval),
		errors.Is(err, ledgererrors.ErrLastAdmin),
		errors.Is(err, ledgererrors.ErrAlreadyRegistered),
		errors.Is(err, ledgererrors.ErrAlreadyVoted),
		errors.Is(err, ledgererrors.ErrElectionNotActive),
		errors.Is(err, ledgererrors.ErrElectionNotStarted),
		errors.Is(err, ledgererrors.ErrElectionEnded),
		errors.Is(err, ledgererrors.ErrNotEligible):
		writeLedgerError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeLedgerError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLedgerError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

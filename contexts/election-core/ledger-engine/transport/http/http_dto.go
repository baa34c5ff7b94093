package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	StartTime   int64  `json:"start_time"`
	EndTime     int64  `json:"end_time"`
}

type ElectionResponse struct {
	ElectionID     uint64 `json:"election_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	StartTime      int64  `json:"start_time"`
	EndTime        int64  `json:"end_time"`
	IsActive       bool   `json:"is_active"`
	Creator        string `json:"creator"`
	TotalVotes     uint64 `json:"total_votes"`
	CandidateCount uint64 `json:"candidate_count"`
	Status         string `json:"status"`
}

type ElectionListResponse struct {
	Items []ElectionResponse `json:"items"`
}

type ActiveElectionsResponse struct {
	ElectionIDs []uint64 `json:"election_ids"`
}

type ElectionStatusResponse struct {
	ElectionID uint64 `json:"election_id"`
	Status     string `json:"status"`
}

type AddCandidateRequest struct {
	Name     string `json:"name"`
	Party    string `json:"party"`
	ImageURL string `json:"image_url,omitempty"`
}

type CandidateResponse struct {
	ElectionID  uint64 `json:"election_id"`
	CandidateID uint64 `json:"candidate_id"`
	Name        string `json:"name"`
	Party       string `json:"party"`
	ImageURL    string `json:"image_url,omitempty"`
	VoteCount   uint64 `json:"vote_count"`
}

type CandidateListResponse struct {
	Items []CandidateResponse `json:"items"`
}

type RegisterVoterRequest struct {
	Account string `json:"account"`
}

type RegisterVotersRequest struct {
	Accounts []string `json:"accounts"`
}

type RegisterVotersResponse struct {
	Registered int `json:"registered"`
	Skipped    int `json:"skipped"`
}

type VoterStatusResponse struct {
	Account  string `json:"account"`
	Eligible bool   `json:"eligible"`
	HasVoted bool   `json:"has_voted"`
	CanVote  bool   `json:"can_vote"`
}

type VoteRequest struct {
	CandidateID uint64 `json:"candidate_id"`
}

type BallotResponse struct {
	ElectionID  uint64 `json:"election_id"`
	Account     string `json:"account"`
	CandidateID uint64 `json:"candidate_id"`
	CastAt      int64  `json:"cast_at"`
}

type ElectionResultsResponse struct {
	Election   ElectionResponse    `json:"election"`
	Candidates []CandidateResponse `json:"candidates"`
	LastUpdate string              `json:"last_update"`
}

type AddAdminRequest struct {
	Account string `json:"account"`
}

type AdminResponse struct {
	Account string `json:"account"`
	AddedBy string `json:"added_by"`
	AddedAt int64  `json:"added_at"`
}

type AdminListResponse struct {
	Items []AdminResponse `json:"items"`
}

type AdminCheckResponse struct {
	Account string `json:"account"`
	IsAdmin bool   `json:"is_admin"`
}

type AuditEntryResponse struct {
	Seq        uint64         `json:"seq"`
	EventType  string         `json:"event_type"`
	ElectionID uint64         `json:"election_id,omitempty"`
	Actor      string         `json:"actor"`
	OccurredAt int64          `json:"occurred_at"`
	Data       map[string]any `json:"data"`
}

type AuditListResponse struct {
	Items []AuditEntryResponse `json:"items"`
}

package errors

import "errors"

var (
	ErrUnauthorized       = errors.New("caller is not an admin")
	ErrElectionNotFound   = errors.New("election not found")
	ErrInvalidTimeRange   = errors.New("start time must be before end time")
	ErrStartTimeInPast    = errors.New("start time is in the past")
	ErrAlreadyAdmin       = errors.New("account is already an admin")
	ErrNotAdmin           = errors.New("account is not an admin")
	ErrSelfRemoval        = errors.New("admin cannot remove itself")
	ErrLastAdmin          = errors.New("cannot remove the last admin")
	ErrAlreadyRegistered  = errors.New("voter is already registered")
	ErrElectionNotActive  = errors.New("election is not active")
	ErrElectionNotStarted = errors.New("election has not started")
	ErrElectionEnded      = errors.New("election has ended")
	ErrNotEligible        = errors.New("voter is not eligible for this election")
	ErrAlreadyVoted       = errors.New("voter has already voted in this election")
	ErrInvalidCandidate   = errors.New("candidate id is out of range")
	ErrHasNotVoted        = errors.New("voter has not cast a ballot")
	ErrInvalidAccount     = errors.New("account identifier is required")
	ErrAuditEntryNotFound = errors.New("audit entry not found")
)

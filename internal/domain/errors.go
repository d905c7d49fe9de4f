package domain

import "errors"

// AgentNotFound is the port reported when no local agent serves the project.
const AgentNotFound = -1

var (
	ErrInvalidFilter         = errors.New("invalid filter")
	ErrSuggestionUnavailable = errors.New("AI suggestion unavailable")
	ErrAgentNotRunning       = errors.New("local agent not running")
	ErrLineOutOfRange        = errors.New("line range outside source text")
)

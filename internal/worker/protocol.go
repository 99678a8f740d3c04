// Package worker hosts question generation and scoring behind a
// message-passed request/response boundary. Requests carry a correlation id;
// responses for distinct ids may arrive in any order.
package worker

import "encoding/json"

// Request type tags. The set is a versioned contract: new tags may be added,
// but the envelope shape never changes.
const (
	TypeInit              = "INIT"
	TypeGenerateQuestions = "GENERATE_QUESTIONS"
	TypeGenerateMCQ       = "GENERATE_MCQ"
	TypeCalculateScore    = "CALCULATE_SCORE"
	TypeShuffleArray      = "SHUFFLE_ARRAY"
	TypeValidateAnswer    = "VALIDATE_ANSWER"
	TypeFilterQuestions   = "FILTER_QUESTIONS"
	TypeGetRandomSubset   = "GET_RANDOM_SUBSET"
)

// Response type tags.
const (
	TypeSuccess = "SUCCESS"
	TypeError   = "ERROR"
)

// Request is the inbound envelope.
type Request struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	ID      string          `json:"id"`
}

// Response is the outbound envelope. Exactly one of Result or Error is set.
type Response struct {
	Type   string     `json:"type"`
	ID     string     `json:"id"`
	Result any        `json:"result,omitempty"`
	Error  *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries a handler failure across the boundary.
type ErrorInfo struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

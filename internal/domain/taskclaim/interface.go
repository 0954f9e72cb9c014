package taskclaim

import (
	"context"
	"encoding/json"
)

// Submission is the participant's payload. Which fields are read depends on
// the task type.
type Submission struct {
	Answer     json.RawMessage `json:"answer,omitempty"`
	Answers    []int           `json:"answers,omitempty"`
	PhotoURL   string          `json:"photo_url,omitempty"`
	Text       string          `json:"text,omitempty"`
	BookName   string          `json:"book_name,omitempty"`
	TargetDate string          `json:"target_date,omitempty"`
}

type Processor interface {
	// Validate checks the submission against the task config and returns the
	// answer to persist. A rejected submission persists nothing and may be
	// retried.
	Validate(ctx context.Context, submission Submission) (string, error)

	// PublicConfig returns the config shown to participants, without any
	// correct answer.
	PublicConfig() map[string]any
}

// WrongAnswers is the detail of a rejected multi-question quiz.
type WrongAnswers struct {
	WrongIndices []int `json:"wrong_indices"`
}

// MinLength is the detail of a too short text.
type MinLength struct {
	MinLength int `json:"min_length"`
}

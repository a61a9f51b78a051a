package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pratss10/google-form-autofiller/internal/schemas"
)

// AnswersArtifact is the exported record of one run, written for review
// before the prefilled URL is used.
type AnswersArtifact struct {
	RunID        string         `json:"run_id"`
	FormURL      string         `json:"form_url"`
	PrefilledURL string         `json:"prefilled_url"`
	Answers      []AnswerRecord `json:"answers"`
}

// AnswerRecord pairs a resolved answer with its question.
type AnswerRecord struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Type       int    `json:"type,omitempty"`
	Value      string `json:"value"`
}

// BuildArtifact assembles the exportable record from a run result.
func BuildArtifact(formURL string, result *Result) *AnswersArtifact {
	artifact := &AnswersArtifact{
		RunID:        result.RunID.String(),
		FormURL:      formURL,
		PrefilledURL: result.PrefilledURL,
	}
	for _, id := range result.Answers.IDs() {
		value, _ := result.Answers.Get(id)
		record := AnswerRecord{QuestionID: id, Value: value}
		if q, ok := result.Bank.Get(id); ok {
			record.Question = q.Text
			record.Type = int(q.Type)
		}
		artifact.Answers = append(artifact.Answers, record)
	}
	if artifact.Answers == nil {
		artifact.Answers = []AnswerRecord{}
	}
	return artifact
}

// WriteArtifact marshals the artifact to path and validates it against the
// answers schema. When the schema file cannot be located, validation is
// skipped and the artifact is written as-is.
func WriteArtifact(path string, artifact *AnswersArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answers artifact: %w", err)
	}

	if schemaPath := schemas.ResolveSchemaPath("schemas/answers.schema.json"); schemaPath != "" {
		if err := schemas.ValidateBytes(schemaPath, data); err != nil {
			return fmt.Errorf("answers artifact does not validate against schema: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write answers artifact: %w", err)
	}
	return nil
}

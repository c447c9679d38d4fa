package models

// AnswerOption is one selectable option of a questionnaire question. Weights
// maps trait names to partial contributions in [0,1]; an option does not
// have to mention every trait.
type AnswerOption struct {
	Label   string             `dynamodbav:"label" json:"label"`
	Weights map[string]float64 `dynamodbav:"weights" json:"weights"`
}

// QuestionDefinition is a questionnaire question with its ordered options.
// Options are indexed directly by the answer's option index.
type QuestionDefinition struct {
	QuestionID string         `dynamodbav:"questionId" json:"questionId"`
	Prompt     string         `dynamodbav:"prompt" json:"prompt"`
	Options    []AnswerOption `dynamodbav:"options" json:"options"`
}

// AnswerRecord is one user's stored answer to one question. A resubmission
// replaces all of a user's records wholesale.
type AnswerRecord struct {
	UserID      string `dynamodbav:"userId" json:"userId"`         // Partition key
	QuestionID  string `dynamodbav:"questionId" json:"questionId"` // Sort key
	OptionIndex int    `dynamodbav:"optionIndex" json:"optionIndex"`
	CreatedAt   string `dynamodbav:"createdAt" json:"createdAt"`
}

// Answer is the submission payload shape: one selected option per question.
type Answer struct {
	QuestionID  string `json:"questionId"`
	OptionIndex int    `json:"optionIndex"`
}

const (
	// QuestionsTable is the DynamoDB table name for question definitions
	QuestionsTable = "Questions"
	// AnswersTable is the DynamoDB table name for submitted answers
	AnswersTable = "Answers"
)

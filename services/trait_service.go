package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"kindred_server/models"
	"kindred_server/utils"
)

// neutralTraitScore is assigned to traits no answer contributed to.
const neutralTraitScore = 0.5

// TraitService turns questionnaire answers into trait vectors and owns their
// lifecycle. Submissions are all-or-nothing: either the full answer set and
// the recomputed vector land together, or nothing changes.
type TraitService struct {
	Dynamo DataStore
	Cache  CompatibilityCache
	Logger *zap.Logger
}

// GetQuestions returns all question definitions.
func (ts *TraitService) GetQuestions(ctx context.Context) ([]models.QuestionDefinition, error) {
	items, err := ts.Dynamo.ScanItems(ctx, models.QuestionsTable, "", nil, nil)
	if err != nil {
		return nil, err
	}
	var questions []models.QuestionDefinition
	if err := attributevalue.UnmarshalListOfMaps(items, &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	return questions, nil
}

// SubmitAnswers replaces the user's prior answers with the given set,
// recomputes the trait vector and invalidates the user's cached pair scores.
func (ts *TraitService) SubmitAnswers(ctx context.Context, userID string, answers []models.Answer) (*models.TraitVector, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidOperation)
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers submitted", ErrInvalidOperation)
	}

	questions, err := ts.GetQuestions(ctx)
	if err != nil {
		return nil, err
	}
	questionsByID := make(map[string]models.QuestionDefinition, len(questions))
	for _, q := range questions {
		questionsByID[q.QuestionID] = q
	}

	vector, err := ComputeTraitVector(answers, questionsByID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	vector.UserID = userID
	vector.ComputedAt = now

	priorQuestionIDs, err := ts.answeredQuestionIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	// One transactional write: drop answers not present in the new set, put
	// the new set, put the vector. Replaced question ids are plain upserts,
	// so no key collides with a delete.
	newQuestionIDs := make(map[string]bool, len(answers))
	ops := make([]TransactOp, 0, len(answers)+len(priorQuestionIDs)+1)
	for _, a := range answers {
		newQuestionIDs[a.QuestionID] = true
		ops = append(ops, TransactOp{
			Table: models.AnswersTable,
			Put: models.AnswerRecord{
				UserID:      userID,
				QuestionID:  a.QuestionID,
				OptionIndex: a.OptionIndex,
				CreatedAt:   now,
			},
		})
	}
	for _, questionID := range priorQuestionIDs {
		if !newQuestionIDs[questionID] {
			ops = append(ops, TransactOp{Table: models.AnswersTable, Delete: answerKey(userID, questionID)})
		}
	}
	ops = append(ops, TransactOp{Table: models.TraitVectorsTable, Put: *vector})

	if err := ts.Dynamo.TransactWrite(ctx, ops); err != nil {
		return nil, err
	}

	if err := ts.Cache.InvalidateUser(ctx, userID); err != nil {
		// Stale entries self-expire; the submission itself is durable.
		ts.Logger.Warn("cache invalidation failed after answer submission",
			zap.String("userId", userID), zap.Error(err))
	}

	ts.Logger.Info("trait vector recomputed",
		zap.String("userId", userID), zap.Int("answers", len(answers)))
	return vector, nil
}

// GetTraitVector returns the user's trait vector, or
// ErrQuestionnaireIncomplete if none was computed yet.
func (ts *TraitService) GetTraitVector(ctx context.Context, userID string) (*models.TraitVector, error) {
	item, err := ts.Dynamo.GetItem(ctx, models.TraitVectorsTable, traitVectorKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("user '%s': %w", userID, ErrQuestionnaireIncomplete)
	}

	var vector models.TraitVector
	if err := attributevalue.UnmarshalMap(item, &vector); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trait vector: %w", err)
	}
	return &vector, nil
}

// ResetPersonality clears the user's trait vector, answers and cached pair
// scores. Like/pass history is untouched.
func (ts *TraitService) ResetPersonality(ctx context.Context, userID string) error {
	questionIDs, err := ts.answeredQuestionIDs(ctx, userID)
	if err != nil {
		return err
	}

	ops := make([]TransactOp, 0, len(questionIDs)+1)
	for _, questionID := range questionIDs {
		ops = append(ops, TransactOp{Table: models.AnswersTable, Delete: answerKey(userID, questionID)})
	}
	ops = append(ops, TransactOp{Table: models.TraitVectorsTable, Delete: traitVectorKey(userID)})

	if err := ts.Dynamo.TransactWrite(ctx, ops); err != nil {
		return err
	}

	if err := ts.Cache.InvalidateUser(ctx, userID); err != nil {
		ts.Logger.Warn("cache invalidation failed after personality reset",
			zap.String("userId", userID), zap.Error(err))
	}

	ts.Logger.Info("personality reset", zap.String("userId", userID))
	return nil
}

// ComputeTraitVector maps answers to a trait vector: per trait an average of
// the contributing option weights, 2-decimal rounded, neutral 0.5 where no
// answer contributed. Any answer referencing an unknown question or option
// fails the whole computation.
func ComputeTraitVector(answers []models.Answer, questionsByID map[string]models.QuestionDefinition) (*models.TraitVector, error) {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, answer := range answers {
		question, ok := questionsByID[answer.QuestionID]
		if !ok {
			return nil, fmt.Errorf("question '%s': %w", answer.QuestionID, ErrNotFound)
		}
		if answer.OptionIndex < 0 || answer.OptionIndex >= len(question.Options) {
			return nil, fmt.Errorf("%w: option %d out of range for question '%s'",
				ErrInvalidOperation, answer.OptionIndex, answer.QuestionID)
		}
		for trait, weight := range question.Options[answer.OptionIndex].Weights {
			sums[trait] += weight
			counts[trait]++
		}
	}

	var vector models.TraitVector
	for _, trait := range append(append([]string{}, models.CoreTraitNames...), models.LifestyleTraitNames...) {
		score := neutralTraitScore
		if counts[trait] > 0 {
			score = utils.Round2(sums[trait] / float64(counts[trait]))
		}
		vector.SetTrait(trait, score)
	}
	return &vector, nil
}

func (ts *TraitService) answeredQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	items, err := ts.Dynamo.QueryItems(ctx, models.AnswersTable, "userId = :userId",
		map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		}, nil, 0)
	if err != nil {
		return nil, err
	}
	var records []models.AnswerRecord
	if err := attributevalue.UnmarshalListOfMaps(items, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}
	ids := make([]string, 0, len(records))
	for _, record := range records {
		ids = append(ids, record.QuestionID)
	}
	return ids, nil
}

func answerKey(userID, questionID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId":     &types.AttributeValueMemberS{Value: userID},
		"questionId": &types.AttributeValueMemberS{Value: questionID},
	}
}

func traitVectorKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kindred_server/models"
)

func questionFixtures() map[string]models.QuestionDefinition {
	return map[string]models.QuestionDefinition{
		"q1": {
			QuestionID: "q1",
			Options: []models.AnswerOption{
				{Label: "a", Weights: map[string]float64{models.TraitExtroversion: 0.9, models.TraitOpenness: 0.6}},
				{Label: "b", Weights: map[string]float64{models.TraitExtroversion: 0.2}},
			},
		},
		"q2": {
			QuestionID: "q2",
			Options: []models.AnswerOption{
				{Label: "a", Weights: map[string]float64{models.TraitExtroversion: 0.5, models.TraitVeganismSupport: 1.0}},
				{Label: "b", Weights: map[string]float64{models.TraitVeganismSupport: 0.0}},
			},
		},
	}
}

func TestComputeTraitVector_AveragesContributions(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q1", OptionIndex: 0},
		{QuestionID: "q2", OptionIndex: 0},
	}

	vector, err := ComputeTraitVector(answers, questionFixtures())
	require.NoError(t, err)

	// extroversion: (0.9 + 0.5) / 2
	assert.Equal(t, 0.7, vector.Extroversion)
	assert.Equal(t, 0.6, vector.Openness)
	assert.Equal(t, 1.0, vector.VeganismSupport)
}

func TestComputeTraitVector_NeutralDefaultForUntouchedTraits(t *testing.T) {
	answers := []models.Answer{{QuestionID: "q1", OptionIndex: 1}}

	vector, err := ComputeTraitVector(answers, questionFixtures())
	require.NoError(t, err)

	assert.Equal(t, 0.2, vector.Extroversion)
	// Nothing contributed to these.
	assert.Equal(t, 0.5, vector.Openness)
	assert.Equal(t, 0.5, vector.SocialJustice)
	assert.Equal(t, 0.5, vector.GrowthMindset)
}

func TestComputeTraitVector_ValuesStayInRange(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q1", OptionIndex: 0},
		{QuestionID: "q2", OptionIndex: 1},
	}

	vector, err := ComputeTraitVector(answers, questionFixtures())
	require.NoError(t, err)

	for trait, value := range vector.Core() {
		assert.GreaterOrEqual(t, value, 0.0, trait)
		assert.LessOrEqual(t, value, 1.0, trait)
	}
	for trait, value := range vector.Lifestyle() {
		assert.GreaterOrEqual(t, value, 0.0, trait)
		assert.LessOrEqual(t, value, 1.0, trait)
	}
}

func TestComputeTraitVector_RoundsToTwoDecimals(t *testing.T) {
	questions := map[string]models.QuestionDefinition{
		"q1": {QuestionID: "q1", Options: []models.AnswerOption{
			{Weights: map[string]float64{models.TraitOpenness: 0.1}},
		}},
		"q2": {QuestionID: "q2", Options: []models.AnswerOption{
			{Weights: map[string]float64{models.TraitOpenness: 0.2}},
		}},
		"q3": {QuestionID: "q3", Options: []models.AnswerOption{
			{Weights: map[string]float64{models.TraitOpenness: 0.2}},
		}},
	}
	answers := []models.Answer{
		{QuestionID: "q1"}, {QuestionID: "q2"}, {QuestionID: "q3"},
	}

	vector, err := ComputeTraitVector(answers, questions)
	require.NoError(t, err)

	// (0.1+0.2+0.2)/3 = 0.1666..., stored as 0.17.
	assert.Equal(t, 0.17, vector.Openness)
}

func TestComputeTraitVector_UnknownQuestionFailsWholeSubmission(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q1", OptionIndex: 0},
		{QuestionID: "missing", OptionIndex: 0},
	}

	_, err := ComputeTraitVector(answers, questionFixtures())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComputeTraitVector_OptionIndexOutOfRange(t *testing.T) {
	_, err := ComputeTraitVector([]models.Answer{{QuestionID: "q1", OptionIndex: 5}}, questionFixtures())
	assert.ErrorIs(t, err, ErrInvalidOperation)

	_, err = ComputeTraitVector([]models.Answer{{QuestionID: "q1", OptionIndex: -1}}, questionFixtures())
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func newTraitService(store *fakeStore, cache *fakeCache) *TraitService {
	return &TraitService{Dynamo: store, Cache: cache, Logger: zap.NewNop()}
}

func seedQuestions(t *testing.T, store *fakeStore) {
	t.Helper()
	for _, question := range questionFixtures() {
		require.NoError(t, store.seed(models.QuestionsTable, question))
	}
}

func TestSubmitAnswers_ReplacesAnswersAndInvalidatesCache(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	seedQuestions(t, store)
	svc := newTraitService(store, cache)
	ctx := context.Background()

	_, err := svc.SubmitAnswers(ctx, "alice", []models.Answer{
		{QuestionID: "q1", OptionIndex: 0},
		{QuestionID: "q2", OptionIndex: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, store.count(models.AnswersTable))

	// Resubmission with fewer answers drops the stale record.
	vector, err := svc.SubmitAnswers(ctx, "alice", []models.Answer{
		{QuestionID: "q1", OptionIndex: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.count(models.AnswersTable))
	assert.Equal(t, 0.2, vector.Extroversion)
	assert.Equal(t, []string{"alice", "alice"}, cache.invalidated)

	stored, err := svc.GetTraitVector(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0.2, stored.Extroversion)
}

func TestSubmitAnswers_UnknownQuestionWritesNothing(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	seedQuestions(t, store)
	svc := newTraitService(store, cache)

	_, err := svc.SubmitAnswers(context.Background(), "alice", []models.Answer{
		{QuestionID: "q1", OptionIndex: 0},
		{QuestionID: "ghost", OptionIndex: 0},
	})
	require.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 0, store.count(models.AnswersTable))
	assert.Equal(t, 0, store.count(models.TraitVectorsTable))
	assert.Empty(t, cache.invalidated)
}

func TestGetTraitVector_NotCompleted(t *testing.T) {
	svc := newTraitService(newFakeStore(), newFakeCache())

	_, err := svc.GetTraitVector(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrQuestionnaireIncomplete))
}

func TestResetPersonality_ClearsEverything(t *testing.T) {
	store := newFakeStore()
	cache := newFakeCache()
	seedQuestions(t, store)
	svc := newTraitService(store, cache)
	ctx := context.Background()

	_, err := svc.SubmitAnswers(ctx, "alice", []models.Answer{{QuestionID: "q1", OptionIndex: 0}})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPersonality(ctx, "alice"))

	assert.Equal(t, 0, store.count(models.AnswersTable))
	assert.Equal(t, 0, store.count(models.TraitVectorsTable))
	_, err = svc.GetTraitVector(ctx, "alice")
	assert.ErrorIs(t, err, ErrQuestionnaireIncomplete)
	assert.Contains(t, cache.invalidated, "alice")
}

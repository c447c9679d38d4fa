package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kindred_server/models"
	"kindred_server/utils"
)

// InteractionService records like/pass/super-like/block edges and promotes
// mutual likes into a Match with its Conversation.
type InteractionService struct {
	Dynamo   DataStore
	Notifier Notifier
	Logger   *zap.Logger
}

// LikeResult reports whether the like completed a match and, if so, the
// match and conversation identifiers.
type LikeResult struct {
	IsMatch        bool   `json:"isMatch"`
	MatchID        string `json:"matchId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

// Like records sender→receiver. If the reciprocal like already exists the
// pair is promoted to a Match atomically; a concurrent promotion by the
// other direction is absorbed as the same successful match.
func (is *InteractionService) Like(ctx context.Context, senderID, receiverID string) (LikeResult, error) {
	if err := is.validateDirected(ctx, senderID, receiverID); err != nil {
		return LikeResult{}, err
	}

	created, err := is.putEdge(ctx, senderID, receiverID, models.InteractionTypeLike)
	if err != nil {
		return LikeResult{}, err
	}
	if !created {
		return LikeResult{}, fmt.Errorf("%s -> %s: %w", senderID, receiverID, ErrAlreadyLiked)
	}

	reciprocal, err := is.edgeExists(ctx, receiverID, senderID, models.InteractionTypeLike)
	if err != nil {
		return LikeResult{}, err
	}
	if !reciprocal {
		is.Notifier.Notify(receiverID, EventLike, map[string]string{"fromUserId": senderID})
		return LikeResult{IsMatch: false}, nil
	}

	match, err := is.createMatch(ctx, senderID, receiverID)
	if err != nil {
		return LikeResult{}, err
	}
	return LikeResult{
		IsMatch:        true,
		MatchID:        match.MatchID,
		ConversationID: match.ConversationID,
	}, nil
}

// Pass records sender→receiver. Passing twice is a no-op.
func (is *InteractionService) Pass(ctx context.Context, senderID, receiverID string) error {
	if senderID == receiverID {
		return ErrSelfAction
	}
	created, err := is.putEdge(ctx, senderID, receiverID, models.InteractionTypePass)
	if err != nil {
		return err
	}
	if !created {
		is.Logger.Debug("duplicate pass ignored",
			zap.String("senderId", senderID), zap.String("receiverId", receiverID))
	}
	return nil
}

// SuperLike records a super-like and ensures a like edge exists alongside
// it. Reciprocity is only checked by Like, so a super-like alone never
// creates a match.
func (is *InteractionService) SuperLike(ctx context.Context, senderID, receiverID string) error {
	if err := is.validateDirected(ctx, senderID, receiverID); err != nil {
		return err
	}

	created, err := is.putEdge(ctx, senderID, receiverID, models.InteractionTypeSuperLike)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: already super liked", ErrInvalidOperation)
	}

	// The implied like edge may already exist; that is fine.
	if _, err := is.putEdge(ctx, senderID, receiverID, models.InteractionTypeLike); err != nil {
		return err
	}

	is.Notifier.Notify(receiverID, EventSuperLike, map[string]string{"fromUserId": senderID})
	return nil
}

// Block records a block edge. Idempotent; unmatching is out of scope.
func (is *InteractionService) Block(ctx context.Context, senderID, receiverID string) error {
	if senderID == receiverID {
		return ErrSelfAction
	}
	_, err := is.putEdge(ctx, senderID, receiverID, models.InteractionTypeBlock)
	return err
}

func (is *InteractionService) validateDirected(ctx context.Context, senderID, receiverID string) error {
	if senderID == "" || receiverID == "" {
		return fmt.Errorf("%w: sender and receiver are required", ErrInvalidOperation)
	}
	if senderID == receiverID {
		return ErrSelfAction
	}
	for _, direction := range [][2]string{{senderID, receiverID}, {receiverID, senderID}} {
		blocked, err := is.edgeExists(ctx, direction[0], direction[1], models.InteractionTypeBlock)
		if err != nil {
			return err
		}
		if blocked {
			return fmt.Errorf("%s / %s: %w", senderID, receiverID, ErrBlocked)
		}
	}
	return nil
}

// createMatch creates the Match and its Conversation in one transactional
// write guarded by a uniqueness condition on the canonical pair key. Losing
// the race means the match already exists: it is re-read and reported as the
// same success.
func (is *InteractionService) createMatch(ctx context.Context, senderID, receiverID string) (*models.Match, error) {
	userA, userB := utils.SortPair(senderID, receiverID)
	pairKey := utils.CanonicalPairKey(senderID, receiverID)
	now := time.Now().UTC().Format(time.RFC3339)

	match := models.Match{
		PairKey:        pairKey,
		MatchID:        uuid.NewString(),
		ConversationID: uuid.NewString(),
		UserA:          userA,
		UserB:          userB,
		Status:         models.MatchStatusActive,
		CreatedAt:      now,
	}
	conversation := models.Conversation{
		ConversationID: match.ConversationID,
		MatchID:        match.MatchID,
		CreatedAt:      now,
	}

	err := is.Dynamo.TransactWrite(ctx, []TransactOp{
		{Table: models.MatchesTable, Put: match, Condition: "attribute_not_exists(pairKey)"},
		{Table: models.ConversationsTable, Put: conversation},
	})
	switch {
	case errors.Is(err, ErrTransactionConflict):
		existing, getErr := is.getMatch(ctx, pairKey)
		if getErr != nil {
			return nil, getErr
		}
		is.Logger.Info("match creation race absorbed", zap.String("pairKey", pairKey))
		return existing, nil
	case err != nil:
		return nil, err
	}

	is.Logger.Info("match created",
		zap.String("pairKey", pairKey), zap.String("matchId", match.MatchID))
	is.Notifier.Notify(userA, EventMatch, match)
	is.Notifier.Notify(userB, EventMatch, match)
	return &match, nil
}

func (is *InteractionService) getMatch(ctx context.Context, pairKey string) (*models.Match, error) {
	item, err := is.Dynamo.GetItem(ctx, models.MatchesTable, map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: pairKey},
	})
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("match '%s': %w", pairKey, ErrNotFound)
	}
	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

func (is *InteractionService) putEdge(ctx context.Context, senderID, receiverID, edgeType string) (bool, error) {
	edge := models.NewInteraction(senderID, receiverID, edgeType, time.Now().UTC().Format(time.RFC3339))
	created, err := is.Dynamo.PutItemIfAbsent(ctx, models.InteractionsTable, edge, "senderId")
	if err != nil {
		return false, fmt.Errorf("failed to save %s edge: %w", edgeType, err)
	}
	return created, nil
}

func (is *InteractionService) edgeExists(ctx context.Context, senderID, receiverID, edgeType string) (bool, error) {
	item, err := is.Dynamo.GetItem(ctx, models.InteractionsTable, map[string]types.AttributeValue{
		"senderId": &types.AttributeValueMemberS{Value: senderID},
		"sk":       &types.AttributeValueMemberS{Value: models.InteractionSortKey(receiverID, edgeType)},
	})
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"kindred_server/models"
)

type ProfileService struct {
	Dynamo DataStore
	Logger *zap.Logger
}

// AddUserProfile upserts a user profile.
func (ps *ProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidOperation)
	}
	if err := ps.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	ps.Logger.Info("profile saved", zap.String("userId", profile.UserID))
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID.
func (ps *ProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := ps.Dynamo.GetItem(ctx, models.UserProfilesTable, profileKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("profile '%s': %w", userID, ErrNotFound)
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// DeleteUserProfile removes a user profile.
func (ps *ProfileService) DeleteUserProfile(ctx context.Context, userID string) error {
	return ps.Dynamo.DeleteItem(ctx, models.UserProfilesTable, profileKey(userID))
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

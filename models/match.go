package models

// Match is the undirected record created when both directed like edges
// exist between a pair. Keyed by the canonical pair key, so at most one
// match can ever exist for a pair.
type Match struct {
	PairKey        string `dynamodbav:"pairKey" json:"pairKey"` // Partition key
	MatchID        string `dynamodbav:"matchId" json:"matchId"`
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	UserA          string `dynamodbav:"userA" json:"userA"` // lexicographically smaller id
	UserB          string `dynamodbav:"userB" json:"userB"`
	Status         string `dynamodbav:"status" json:"status"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

// Conversation is created 1:1 with a Match in the same transaction.
type Conversation struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"` // Partition key
	MatchID        string `dynamodbav:"matchId" json:"matchId"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
}

const (
	MatchStatusActive = "active"

	// MatchesTable is the DynamoDB table name for matches
	MatchesTable = "Matches"
	// ConversationsTable is the DynamoDB table name for conversations
	ConversationsTable = "Conversations"
)

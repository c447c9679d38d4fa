package models

// Interaction types for directed relationship edges.
const (
	InteractionTypeLike      = "like"
	InteractionTypePass      = "pass"
	InteractionTypeSuperLike = "superlike"
	InteractionTypeBlock     = "block"
)

// Interaction is a directed edge sender -> receiver, unique per ordered pair
// and type. The sort key is receiverId + "#" + type so a single GetItem can
// answer "does this exact edge exist".
type Interaction struct {
	SenderID   string `dynamodbav:"senderId" json:"senderId"` // Partition key
	SortKey    string `dynamodbav:"sk" json:"-"`              // receiverId#type
	ReceiverID string `dynamodbav:"receiverId" json:"receiverId"`
	Type       string `dynamodbav:"type" json:"type"`
	CreatedAt  string `dynamodbav:"createdAt" json:"createdAt"`
}

// InteractionSortKey builds the sort key for an edge.
func InteractionSortKey(receiverID, interactionType string) string {
	return receiverID + "#" + interactionType
}

// NewInteraction builds an edge with its sort key populated.
func NewInteraction(senderID, receiverID, interactionType, createdAt string) Interaction {
	return Interaction{
		SenderID:   senderID,
		SortKey:    InteractionSortKey(receiverID, interactionType),
		ReceiverID: receiverID,
		Type:       interactionType,
		CreatedAt:  createdAt,
	}
}

// InteractionsTable is the DynamoDB table name for relationship edges
const InteractionsTable = "Interactions"

// ReceiverIDIndex is the GSI used to query edges by receiver
const ReceiverIDIndex = "receiverId-index"

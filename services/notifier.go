package services

// Notification event names pushed to the realtime collaborator.
const (
	EventLike      = "like"
	EventSuperLike = "superlike"
	EventMatch     = "match"
)

// Notifier is the fire-and-forget notification collaborator. Implementations
// must never block or fail the calling transition; delivery problems are
// theirs to log.
type Notifier interface {
	Notify(userID, event string, payload interface{})
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string, interface{}) {}

package notify

// Publisher is the fire-and-forget sink mutations report to. Implementations
// must never block the caller and delivery is not guaranteed.
type Publisher interface {
	Publish(event string, payload interface{})
}

// Post change events broadcast on the "posts" channel.
const (
	EventPostCreated = "create"
	EventPostUpdated = "update"
	EventPostDeleted = "delete"
)

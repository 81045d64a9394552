package notification

// Topic names a kind of store change.
type Topic string

const (
	UsersChanged         Topic = "users:changed"
	SelectionChanged     Topic = "selection:changed"
	SelectedUserChanged  Topic = "selectedUser:changed"
	MeetingLengthChanged Topic = "meetingLength:changed"
)

// Topics lists every topic the store publishes, in a stable order.
func Topics() []Topic {
	return []Topic{UsersChanged, SelectionChanged, SelectedUserChanged, MeetingLengthChanged}
}

// Handler reacts to a notification. Handlers carry no payload; they read
// whatever state they need back from the store.
type Handler func(topic Topic) error

// NotificationBus defines the publish/subscribe contract between the store
// and its observers.
type NotificationBus interface {
	Subscribe(topic Topic, handler Handler) Subscription
	Publish(topic Topic) error
}

// Subscription is returned by Subscribe.
type Subscription interface {
	Cancel()
}

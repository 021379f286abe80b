package interfaces

// EventPublisher is the optional audit side channel. Implementations must
// treat delivery as best effort; a publish failure is logged by the caller
// and never aborts transaction processing.
type EventPublisher interface {
	Publish(topic string, event any) error
}

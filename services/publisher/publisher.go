package publisher

// Publisher pushes selected picks to downstream consumers (publishing bots,
// notification workers).
type Publisher interface {
	// Publish publishes one pick payload under the given field key
	Publish(key string, message []byte) error

	// TrimStreams trims all streams to the configured maximum length
	TrimStreams() error

	// Close closes the publisher connection
	Close() error
}

package driver

import "time"

const (
	defaultQueueSize        = 64
	defaultSubscriberBuffer = 256
	defaultWakeDelay        = time.Second
)

// Config holds driver initialization parameters.
type Config struct {
	// QueueSize is the capacity of the inbound player-event queue.
	QueueSize int `json:"queue_size,omitempty"`
	// SubscriberBuffer is the per-subscriber record buffer; a subscriber
	// that falls this many records behind is dropped.
	SubscriberBuffer int `json:"subscriber_buffer,omitempty"`
	// WakeDelay is the fixed delay used by the default scheduler.
	WakeDelay time.Duration `json:"wake_delay,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		QueueSize:        defaultQueueSize,
		SubscriberBuffer: defaultSubscriberBuffer,
		WakeDelay:        defaultWakeDelay,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.QueueSize > 0 {
		c.QueueSize = source.QueueSize
	}
	if source.SubscriberBuffer > 0 {
		c.SubscriberBuffer = source.SubscriberBuffer
	}
	if source.WakeDelay > 0 {
		c.WakeDelay = source.WakeDelay
	}
}

package client

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Shopify/sarama"

	"github.com/bbyours/attendance-server/events"
)

// AttendanceResponder drains the event topic the attendance server publishes
// to, handing each parsed event to a fetch callback. Integration drivers use
// it to confirm that API calls became events.
type AttendanceResponder struct {
	DebugMode  bool
	Consumer   sarama.Consumer
	Partitions []sarama.PartitionConsumer
	Conf       Config
	Fetch      func(*AttendanceResponder, *events.GEM) error
	Timeout    time.Duration
}

// NewAttendanceResponder connects to the named brokers and begins watching
// every partition of the topic from the newest offset.
func NewAttendanceResponder(
	cfg Config,
	brokers []string,
	topic string,
	fetch func(*AttendanceResponder, *events.GEM) error,
) (*AttendanceResponder, error) {
	consumer, err := sarama.NewConsumer(brokers, nil)
	if err != nil {
		return nil, err
	}
	partitionIDs, err := consumer.Partitions(topic)
	if err != nil {
		consumer.Close()
		return nil, err
	}
	var partitions []sarama.PartitionConsumer
	for _, p := range partitionIDs {
		pc, err := consumer.ConsumePartition(topic, p, sarama.OffsetNewest)
		if err != nil {
			for _, open := range partitions {
				open.AsyncClose()
			}
			consumer.Close()
			return nil, err
		}
		partitions = append(partitions, pc)
	}
	c := &AttendanceResponder{
		Conf:       cfg,
		Fetch:      fetch,
		Consumer:   consumer,
		Partitions: partitions,
	}
	return c, nil
}

// Note logs when debugging is turned on.
func (c *AttendanceResponder) Note(msg string, args ...interface{}) {
	if c.DebugMode {
		log.Printf(msg, args...)
	}
}

// ParseGemEvent extracts a global event message from a raw kafka message.
func ParseGemEvent(msg *sarama.ConsumerMessage) (*events.GEM, error) {
	var gem events.GEM
	err := json.Unmarshal(msg.Value, &gem)
	if err != nil {
		return nil, err
	}
	return &gem, nil
}

// Handle parses one kafka message and runs the fetch callback on it.
func (c *AttendanceResponder) Handle(msg *sarama.ConsumerMessage) error {
	gem, err := ParseGemEvent(msg)
	if err != nil {
		return err
	}
	if gem == nil {
		return nil
	}
	return c.Fetch(c, gem)
}

// ConsumeKafka pulls events off every watched partition until the configured
// timeout passes without deciding to stop sooner. Parse failures are noted
// and skipped so one bad message cannot stall verification.
func (c *AttendanceResponder) ConsumeKafka() error {
	timeout := time.After(c.Timeout)
	msgs := make(chan *sarama.ConsumerMessage)
	for _, pc := range c.Partitions {
		go func(pc sarama.PartitionConsumer) {
			for msg := range pc.Messages() {
				msgs <- msg
			}
		}(pc)
	}
	for {
		select {
		case msg := <-msgs:
			if err := c.Handle(msg); err != nil {
				c.Note("responder handle error: %v", err)
			}
		case <-timeout:
			return nil
		}
	}
}

// Close shuts down the partition watchers, then the consumer.
func (c *AttendanceResponder) Close() error {
	for _, pc := range c.Partitions {
		pc.AsyncClose()
	}
	return c.Consumer.Close()
}

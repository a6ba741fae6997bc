package main

import (
	"strings"
	"testing"

	"github.com/Shopify/sarama"

	"github.com/bbyours/attendance-server/events"
	"github.com/bbyours/attendance-server/services/audit"
)

func TestFormatEvent(t *testing.T) {
	gem := events.GEM{
		ID:        "0190c1d2-aaaa-7bbb-8ccc-1234567890ab",
		EventType: "attendance-event",
		Action:    "clockin",
	}
	gem.Payload.UserID = "EMP001"
	gem.Payload.Audit = audit.WithActionResult(audit.Event{}, "SUCCESS")

	line, err := formatEvent(gem.Yield())
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	for _, want := range []string{"action=clockin", "user=EMP001", "result=SUCCESS"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected line to contain %q, got %q", want, line)
		}
	}

	raw := []string{
		`{ "payload": { "audit": { "action_result": "FAILURE" } } }`,
		`not even json`,
	}
	for _, data := range raw {
		if _, err := formatEvent([]byte(data)); err == nil {
			t.Errorf("expected error for event without action: %s", data)
		}
	}
}

func TestStartingOffset(t *testing.T) {
	if startingOffset("oldest") != sarama.OffsetOldest {
		t.Error("expected oldest to map to OffsetOldest")
	}
	if startingOffset("OLDEST") != sarama.OffsetOldest {
		t.Error("expected offset flag to be case insensitive")
	}
	if startingOffset("newest") != sarama.OffsetNewest {
		t.Error("expected newest to map to OffsetNewest")
	}
	if startingOffset("") != sarama.OffsetNewest {
		t.Error("expected empty offset to default to OffsetNewest")
	}
}

func TestNewAuditConsumerConfig(t *testing.T) {
	testconf, err := NewAuditConsumerConfig("testfixtures/testconfig.json")
	if err != nil {
		t.Error("error loading testconfig.json")
		t.FailNow()
	}
	if len(testconf.KafkaAddrs) != 2 {
		t.Errorf("expected 2 kafka addrs, got %d", len(testconf.KafkaAddrs))
	}
	if testconf.KafkaTopic != "attendance-event" {
		t.Errorf("unexpected topic: %s", testconf.KafkaTopic)
	}
	if testconf.Offset != "oldest" {
		t.Errorf("unexpected offset: %s", testconf.Offset)
	}

	empty, err := NewAuditConsumerConfig("")
	if err != nil {
		t.Error("empty path should yield a zero config, not an error")
	}
	if len(empty.KafkaAddrs) != 0 {
		t.Error("zero config should have no kafka addrs")
	}
}

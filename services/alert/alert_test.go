package alert

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/bbyours/attendance-server/config"
	"go.uber.org/zap"
)

func TestNewAlerterWithoutBroker(t *testing.T) {
	a := NewAlerter(context.Background(), config.AlertConfiguration{}, zap.NewNop())
	if _, ok := a.(*NoopAlerter); !ok {
		t.Fatalf("expected the noop alerter when no broker is configured, got %T", a)
	}
	if err := a.PendingApproval(context.Background(), ApprovalAlert{ApprovalID: "x"}); err != nil {
		t.Errorf("noop alerter must not fail: %v", err)
	}
	if err := a.Emergency(context.Background(), EmergencyAlert{MessageID: "x"}); err != nil {
		t.Errorf("noop alerter must not fail: %v", err)
	}
}

func TestMQTTAlerterSkipsWhileDisconnected(t *testing.T) {
	//With no broker connection up, publishing is a no-op rather than an
	//error, so request handling does not depend on broker health.
	a := &MQTTAlerter{topicPrefix: "attendance/alerts", logger: zap.NewNop()}
	err := a.PendingApproval(context.Background(), ApprovalAlert{
		ApprovalID:    "abc",
		EmployeeCode:  "***0117",
		RequestType:   "EARLY_CLOCKIN",
		RequestedTime: "08:10:00",
	})
	if err != nil {
		t.Fatalf("publish while disconnected must not fail: %v", err)
	}
}

func TestMQTTAlerterAgainstBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode: do not connect to mqtt")
	}
	brokerURL := os.Getenv("AT_MQTT_URL")
	if brokerURL == "" {
		t.Skip("AT_MQTT_URL not set")
	}
	conf := config.AlertConfiguration{
		MQTTUrl:     brokerURL,
		Username:    os.Getenv("AT_MQTT_USERNAME"),
		Password:    os.Getenv("AT_MQTT_PASSWORD"),
		ClientID:    "attendanced-test",
		TopicPrefix: "attendance/alerts",
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a, err := NewMQTTAlerter(ctx, conf, zap.NewNop())
	if err != nil {
		t.Fatalf("alerter setup failed: %v", err)
	}
	if err := a.AwaitConnection(ctx); err != nil {
		t.Fatalf("broker connection failed: %v", err)
	}
	err = a.Emergency(ctx, EmergencyAlert{MessageID: "test", Sender: "Admin", Subject: "drill"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

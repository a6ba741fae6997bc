package kafka

import (
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"

	"github.com/bbyours/attendance-server/events"
	"github.com/bbyours/attendance-server/services/audit"
)

func successGEM(action string) events.GEM {
	var gem events.GEM
	gem.Action = action
	gem.Payload.Audit = audit.WithActionResult(gem.Payload.Audit, "SUCCESS")
	return gem
}

func TestPublishFiltersOnActions(t *testing.T) {

	mp := mocks.NewAsyncProducer(t, nil)
	mp.ExpectInputAndSucceed()

	ap := AsyncProducer{producer: mp, topic: DefaultTopic}
	defaults(&ap)
	WithPublishActions([]string{"clockin"}, []string{"*"})(&ap)

	// Matching success action publishes, non matching does not.
	ap.Publish(successGEM("clockin"))
	ap.Publish(successGEM("payslip"))

	if err := mp.Close(); err != nil {
		t.Errorf("unexpected messages published: %v", err)
	}
}

func TestPublishWildcard(t *testing.T) {

	mp := mocks.NewAsyncProducer(t, nil)
	mp.ExpectInputAndSucceed()
	mp.ExpectInputAndSucceed()

	ap := AsyncProducer{producer: mp, topic: DefaultTopic}
	defaults(&ap)
	WithPublishActions([]string{"*"}, []string{"*"})(&ap)

	ap.Publish(successGEM("clockin"))
	ap.Publish(successGEM("payslip"))

	if err := mp.Close(); err != nil {
		t.Errorf("expected both messages published: %v", err)
	}
}

func TestRequiresReconnect(t *testing.T) {

	if requiresReconnect(nil) {
		t.Errorf("nil should not require reconnect")
	}
	pe := &sarama.ProducerError{Err: sarama.ErrBrokerNotAvailable}
	if !requiresReconnect(pe) {
		t.Errorf("broker not available should require reconnect")
	}
	pe = &sarama.ProducerError{Err: sarama.ErrRequestTimedOut}
	if requiresReconnect(pe) {
		t.Errorf("request timed out should not require reconnect")
	}
}

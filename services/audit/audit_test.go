package audit

import (
	"testing"
)

// Don't import the GEM, fake it with a wrapper
type envelope struct{ E Event }

func TestAuditSetters(t *testing.T) {

	var en envelope

	en.E = WithAction(en.E, "ACCESS")
	en.E = WithType(en.E, "EventAccess")

	if en.E.Action != "ACCESS" {
		t.Errorf("unexpected action: %v", en.E.Action)
	}
	if en.E.Type != "EventAccess" {
		t.Errorf("unexpected type: %v", en.E.Type)
	}

	testCopy(t, en)
}

func testCopy(t *testing.T, en envelope) {
	if en.E.Action != "ACCESS" {
		t.Errorf("unexpected action: %v", en.E.Action)
	}
	if en.E.Type != "EventAccess" {
		t.Errorf("unexpected type: %v", en.E.Type)
	}
}

func TestAuditAppenders(t *testing.T) {

	var e Event
	e = WithActionTargetMessages(e, "200")
	e = WithActionTargetMessages(e, "ok")
	if len(e.ActionTargetMessages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(e.ActionTargetMessages))
	}

	e = WithAdditionalInfo(e, "URL", "/attendance/api/login")
	e = WithAdditionalInfo(e, "", "dropped")
	if len(e.AdditionalInfo) != 1 {
		t.Errorf("expected 1 additional info entry, got %d", len(e.AdditionalInfo))
	}
}

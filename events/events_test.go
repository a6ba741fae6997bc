package events

import (
	"encoding/json"
	"testing"

	"github.com/bbyours/attendance-server/services/audit"
)

func TestGEMYieldRoundTrip(t *testing.T) {

	gem := GEM{
		ID:            "11111111-2222-3333-4444-555555555555",
		SchemaVersion: "1.0",
		EventType:     "attendance-event",
		Timestamp:     1700000000,
		Action:        "clockin",
	}
	gem.Payload.UserID = "EMP-2024-0001"
	gem.Payload.Audit = audit.WithActionResult(gem.Payload.Audit, "SUCCESS")

	if !gem.IsSuccessful() {
		t.Errorf("expected successful event")
	}
	if gem.EventAction() != "clockin" {
		t.Errorf("unexpected action %s", gem.EventAction())
	}

	var parsed GEM
	if err := json.Unmarshal(gem.Yield(), &parsed); err != nil {
		t.Errorf("unable to deserialize event: %v", err)
	}
	if parsed.Payload.UserID != gem.Payload.UserID {
		t.Errorf("user id did not survive serialization")
	}
	if parsed.Payload.Audit.ActionResult != "SUCCESS" {
		t.Errorf("audit result did not survive serialization")
	}
}

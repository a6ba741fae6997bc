package audit

import "log"

// Event is an audit record for a single API transaction. Fields are
// populated through the With functions and the whole event rides inside the
// published global event model.
type Event struct {
	Type                 string            `json:"type,omitempty"`
	Action               string            `json:"action,omitempty"`
	ActionInitiator      ActionInitiator   `json:"action_initiator,omitempty"`
	ActionLocations      []ActionLocation  `json:"action_locations,omitempty"`
	ActionMode           string            `json:"action_mode,omitempty"`
	ActionResult         string            `json:"action_result,omitempty"`
	ActionTargetMessages []string          `json:"action_target_messages,omitempty"`
	ActionTargetVersions []string          `json:"action_target_versions,omitempty"`
	ActionTargets        []ActionTarget    `json:"action_targets,omitempty"`
	AdditionalInfo       map[string]string `json:"additional_info,omitempty"`
	CreatedOn            string            `json:"created_on,omitempty"`
	Creator              Creator           `json:"creator,omitempty"`
	QueryString          string            `json:"query_string,omitempty"`
	SessionIds           []string          `json:"session_ids,omitempty"`
}

// ActionInitiator identifies who triggered the event.
type ActionInitiator struct {
	IdentityType string `json:"identity_type,omitempty"`
	Value        string `json:"value,omitempty"`
}

// ActionLocation identifies where the event was triggered from.
type ActionLocation struct {
	Identifier string `json:"identifier,omitempty"`
	Value      string `json:"value,omitempty"`
}

// ActionTarget identifies what the event acted upon.
type ActionTarget struct {
	IdentityType string `json:"identity_type,omitempty"`
	Value        string `json:"value,omitempty"`
}

// Creator identifies the application that emitted the event.
type Creator struct {
	IdentityType string `json:"identity_type,omitempty"`
	Value        string `json:"value,omitempty"`
}

// WithType ...
func WithType(e Event, eventType string) Event {
	e.Type = eventType
	return e
}

// WithAction ...
func WithAction(e Event, action string) Event {
	e.Action = action
	return e
}

// WithActionInitiator ...
func WithActionInitiator(e Event, identityType, value string) Event {
	e.ActionInitiator = ActionInitiator{
		IdentityType: identityType,
		Value:        value,
	}
	return e
}

// WithActionLocations ...
func WithActionLocations(e Event, identifier, value string) Event {
	if e.ActionLocations == nil {
		e.ActionLocations = make([]ActionLocation, 0)
	}
	al := ActionLocation{
		Identifier: identifier,
		Value:      value,
	}
	e.ActionLocations = append(e.ActionLocations, al)
	return e
}

// WithActionMode ...
func WithActionMode(e Event, actionMode string) Event {
	e.ActionMode = actionMode
	return e
}

// WithActionResult ...
func WithActionResult(e Event, actionResult string) Event {
	e.ActionResult = actionResult
	return e
}

// WithActionTargetMessages ...
func WithActionTargetMessages(e Event, messages ...string) Event {
	if e.ActionTargetMessages == nil {
		e.ActionTargetMessages = make([]string, 0)
	}
	e.ActionTargetMessages = append(e.ActionTargetMessages, messages...)
	return e
}

// WithActionTargetVersions ...
func WithActionTargetVersions(e Event, versions ...string) Event {
	if e.ActionTargetVersions == nil {
		e.ActionTargetVersions = make([]string, 0)
	}
	e.ActionTargetVersions = append(e.ActionTargetVersions, versions...)
	return e
}

// WithActionTarget ...
func WithActionTarget(e Event, identityType, value string) Event {
	if e.ActionTargets == nil {
		e.ActionTargets = make([]ActionTarget, 0)
	}
	at := ActionTarget{
		IdentityType: identityType,
		Value:        value,
	}
	e.ActionTargets = append(e.ActionTargets, at)
	return e
}

// WithAdditionalInfo ...
func WithAdditionalInfo(e Event, key, value string) Event {

	if e.AdditionalInfo == nil {
		e.AdditionalInfo = make(map[string]string)
	}

	if key == "" || value == "" {
		log.Println("NO-OP: empty string passed for WithAdditionalInfo key or value")
		return e
	}

	e.AdditionalInfo[key] = value
	return e
}

// WithCreatedOn ...
func WithCreatedOn(e Event, createdOn string) Event {
	e.CreatedOn = createdOn
	return e
}

// WithCreator ...
func WithCreator(e Event, identityType, value string) Event {
	e.Creator = Creator{
		IdentityType: identityType,
		Value:        value,
	}
	return e
}

// WithQueryString ...
func WithQueryString(e Event, query string) Event {
	e.QueryString = query
	return e
}

// WithSessionIds ...
func WithSessionIds(e Event, sessionIds ...string) Event {
	if e.SessionIds == nil {
		e.SessionIds = make([]string, 0)
	}
	e.SessionIds = append(e.SessionIds, sessionIds...)
	return e
}

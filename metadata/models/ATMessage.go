package models

// Read states of a message.
const (
	MessageStatusUnread = "UNREAD"
	MessageStatusRead   = "READ"
)

// BroadcastRecipient is the admin facing marker that expands a message to
// every active employee.
const BroadcastRecipient = "ALL EMPLOYEES"

// Message types permitted per sender role.
var (
	EmployeeMessageTypes = []string{"GENERAL", "EMERGENCY", "QUESTION", "COMPLAINT", "OTHER"}
	AdminMessageTypes    = []string{"GENERAL", "ANNOUNCEMENT", "WARNING", "URGENT", "OTHER"}
)

// MessageTypeEmergency triggers operational alerting when sent.
const MessageTypeEmergency = "EMERGENCY"

// PermittedMessageTypes yields the message types the given role may send.
func PermittedMessageTypes(role string) []string {
	if role == RoleAdmin {
		return AdminMessageTypes
	}
	return EmployeeMessageTypes
}

// IsPermittedMessageType indicates whether the role may send the given type.
func IsPermittedMessageType(role string, messageType string) bool {
	for _, t := range PermittedMessageTypes(role) {
		if t == messageType {
			return true
		}
	}
	return false
}

/*
ATMessage is a structure defining a message between an employee and the
admin. Broadcasts are expanded to one record per recipient when created, so
read state is tracked per recipient.
*/
type ATMessage struct {
	ATID
	ATCreatable
	ATModifiable
	// SenderID references the employee who sent the message.
	SenderID string `db:"senderId"`
	// RecipientID references the employee the message was delivered to.
	RecipientID string `db:"recipientId"`
	// MessageType is one of the types permitted for the sender role.
	MessageType string `db:"messageType"`
	// Content is the message body.
	Content string `db:"content"`
	// Status is UNREAD until the recipient marks the message read.
	Status string `db:"status"`
	// ReadDate is when the recipient marked the message read.
	ReadDate NullTime `db:"readDate"`
	// SenderName is joined from the sending employee for listings.
	SenderName string `db:"senderName"`
	// RecipientName is joined from the receiving employee for listings.
	RecipientName string `db:"recipientName"`
	// ChangeToken is carried on event payloads. The message table has no
	// change tracking columns, so it is always empty for messages.
	ChangeToken string `db:"changeToken"`
}

/*
ATMessageResultset encapsulates the ATMessage defined herein as an array
with resultset metric information when retrieving from the database
*/
type ATMessageResultset struct {
	Resultset
	Messages []ATMessage
}

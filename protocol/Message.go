package protocol

// SendMessageRequest delivers a message. Employees always message the
// admin. Admins name a recipient employee code, or ALL EMPLOYEES to
// broadcast.
type SendMessageRequest struct {
	// Recipient is an employee code or ALL EMPLOYEES. Ignored for
	// employee senders.
	Recipient string `json:"recipient,omitempty"`
	// MessageType must be permitted for the sender's role.
	MessageType string `json:"messageType"`
	// Content is the message body.
	Content string `json:"content"`
}

// Message is the serialized version of a delivered message.
type Message struct {
	// MessageID identifies the message for read receipts.
	MessageID string `json:"messageId"`
	// Sender is the display name of the sending employee.
	Sender string `json:"sender"`
	// Recipient is the display name of the receiving employee.
	Recipient string `json:"recipient"`
	// MessageType is one of the types permitted for the sender role.
	MessageType string `json:"messageType"`
	// Content is the message body.
	Content string `json:"content"`
	// Status is UNREAD or READ.
	Status string `json:"status"`
	// SentDate is when the message was delivered.
	SentDate string `json:"sentDate"`
	// ReadDate is when the recipient marked the message read, or empty.
	ReadDate string `json:"readDate,omitempty"`
}

// MessageResultset is a page of messages.
type MessageResultset struct {
	Resultset
	Messages []Message `json:"messages"`
}

// SendMessageResponse is returned when a message is delivered.
type SendMessageResponse struct {
	// MessageID identifies the stored message. For broadcasts this is the
	// first delivered copy.
	MessageID string `json:"messageId"`
	// Delivered is the number of recipient copies created.
	Delivered int `json:"delivered"`
}

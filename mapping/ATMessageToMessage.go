package mapping

import (
	"github.com/bbyours/attendance-server/metadata/models"
	"github.com/bbyours/attendance-server/protocol"
	"github.com/bbyours/attendance-server/util"
)

// MapATMessageToMessage converts an internal ATMessage model object into an
// API exposable protocol Message.
func MapATMessageToMessage(i *models.ATMessage) protocol.Message {
	o := protocol.Message{}
	o.MessageID = i.ID
	o.Sender = i.SenderName
	o.Recipient = i.RecipientName
	o.MessageType = i.MessageType
	o.Content = i.Content
	o.Status = i.Status
	o.SentDate = i.CreatedDate.Format(util.DateFormat + " " + util.TimeFormat)
	if i.ReadDate.Valid {
		o.ReadDate = i.ReadDate.Time.Format(util.DateFormat + " " + util.TimeFormat)
	}
	return o
}

// MapATMessagesToMessages converts an array of internal ATMessage model
// objects into an array of protocol Messages.
func MapATMessagesToMessages(i []models.ATMessage) []protocol.Message {
	o := make([]protocol.Message, len(i))
	for p, q := range i {
		o[p] = MapATMessageToMessage(&q)
	}
	return o
}

package notification

import (
	"github.com/questx-lab/campaign/internal/entity"
)

// Event is the message published for every stored notification.
type Event struct {
	Op       string   `json:"o"`
	Data     Data     `json:"d"`
	Metadata Metadata `json:"m"`
}

type Data struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt int64  `json:"created_at"`
}

type Metadata struct {
	To string `json:"to"`
}

func newEvent(n *entity.Notification) *Event {
	return &Event{
		Op: string(n.Kind),
		Data: Data{
			ID:        n.ID,
			Title:     n.Title,
			Body:      n.Body,
			CreatedAt: n.CreatedAt.UnixMilli(),
		},
		Metadata: Metadata{To: n.UserID},
	}
}

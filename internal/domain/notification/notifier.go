package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/pubsub"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

// Message is a notification addressed to one user.
type Message struct {
	UserID string
	Kind   entity.NotificationKind
	Title  string
	Body   string
}

type Notifier interface {
	// Record stores the messages using the transaction of ctx if any.
	Record(ctx context.Context, messages ...Message) ([]entity.Notification, error)

	// Publish emits the stored notifications. It must be called after the
	// transaction of Record is committed; failures are only logged.
	Publish(ctx context.Context, notifications []entity.Notification)
}

type notifier struct {
	notificationRepo repository.NotificationRepository
	publisher        pubsub.Publisher
}

// New returns a Notifier. A nil publisher disables publishing.
func New(notificationRepo repository.NotificationRepository, publisher pubsub.Publisher) *notifier {
	return &notifier{notificationRepo: notificationRepo, publisher: publisher}
}

func (n *notifier) Record(ctx context.Context, messages ...Message) ([]entity.Notification, error) {
	notifications := make([]entity.Notification, 0, len(messages))
	for _, m := range messages {
		notifications = append(notifications, entity.Notification{
			Base:   entity.Base{ID: uuid.NewString()},
			UserID: m.UserID,
			Kind:   m.Kind,
			Title:  m.Title,
			Body:   m.Body,
		})
	}

	if err := n.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (n *notifier) Publish(ctx context.Context, notifications []entity.Notification) {
	if n.publisher == nil {
		return
	}

	topic := xcontext.Configs(ctx).Kafka.NotificationTopic
	for i := range notifications {
		b, err := json.Marshal(newEvent(&notifications[i]))
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal notification event: %v", err)
			continue
		}

		err = n.publisher.Publish(ctx, topic, &pubsub.Pack{
			Key: []byte(notifications[i].UserID),
			Msg: b,
		})
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish notification %s: %v", notifications[i].ID, err)
		}
	}
}

func TicketMinted(userID string, numbers []string) Message {
	return Message{
		UserID: userID,
		Kind:   entity.NotificationTicketMinted,
		Title:  "New lottery tickets",
		Body:   fmt.Sprintf("You got %d new ticket(s): %v", len(numbers), numbers),
	}
}

func LotteryWon(userID, ticketNumber, prizeName string) Message {
	return Message{
		UserID: userID,
		Kind:   entity.NotificationLotteryWon,
		Title:  "You won the lottery",
		Body:   fmt.Sprintf("Ticket %s won %s", ticketNumber, prizeName),
	}
}

func ScratchCardReady(userID string, day int) Message {
	return Message{
		UserID: userID,
		Kind:   entity.NotificationScratchCardReady,
		Title:  "A scratch card is waiting",
		Body:   fmt.Sprintf("Your scratch card of day %d is ready", day),
	}
}

func PhotoCommented(uploaderID, commenterName string) Message {
	return Message{
		UserID: uploaderID,
		Kind:   entity.NotificationPhotoComment,
		Title:  "New comment on your photo",
		Body:   fmt.Sprintf("%s commented on your photo", commenterName),
	}
}

func BonusDrawWon(userID string, day int, prizeName string) Message {
	return Message{
		UserID: userID,
		Kind:   entity.NotificationBonusDrawWon,
		Title:  "You won the bonus draw",
		Body:   fmt.Sprintf("You won %s in the bonus draw of day %d", prizeName, day),
	}
}

package reward

import (
	"time"

	"github.com/google/uuid"
)

// Event is the payload published for a reward. EventID lets consumers drop redeliveries.
type Event struct {
	EventID   string    `json:"event_id"`
	UserID    int64     `json:"user_id"`
	Amount    int       `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func newEvent(userID int64, amount int) Event {
	return Event{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

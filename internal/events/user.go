package events

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/dartz_league/internal/logging"
)

const (
	TypeUserSignedUp  = "user_signed_up"
	TypeUserLoggedIn  = "user_logged_in"
	TypeUserLoggedOut = "user_logged_out"
)

type UserEvent struct {
	Type     string    `json:"type"`
	UserID   uint      `json:"userId"`
	Username string    `json:"username,omitempty"`
	At       time.Time `json:"at"`
}

// PublishUser sends a user event and logs, rather than returns, a failure.
func PublishUser(ctx context.Context, p Publisher, typ string, userID uint, username string) {
	if p == nil {
		return
	}
	ev := UserEvent{Type: typ, UserID: userID, Username: username, At: time.Now().UTC()}
	if err := p.PublishEvent(ctx, TopicUserEvents, fmt.Sprint(userID), ev); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", typ, "user_id", userID, "error", err)
	}
}

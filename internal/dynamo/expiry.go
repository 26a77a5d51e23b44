package dynamo

import (
	"time"

	"github.com/oranie/livechat/internal/domain"
)

// FilterExpired returns the comments still live as of now, preserving order.
// Rows past their expiry remain in storage until DynamoDB's own TTL reaping;
// every read path filters them out here instead.
func FilterExpired(comments []domain.Comment, now time.Time) []domain.Comment {
	live := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if !c.Expired(now) {
			live = append(live, c)
		}
	}
	return live
}

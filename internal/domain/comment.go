package domain

import (
	"context"
	"fmt"
	"time"
)

// Comment is a single chat message. Time is the server-assigned sort key,
// encoded as decimal seconds since epoch to survive wire round trips exactly.
// ExpireAt is unix seconds; zero means the comment never expires.
type Comment struct {
	Name     string `json:"name" dynamodbav:"name"`
	Time     string `json:"time" dynamodbav:"time"`
	Comment  string `json:"comment" dynamodbav:"comment"`
	ChatRoom string `json:"chat_room" dynamodbav:"chat_room"`
	ExpireAt int64  `json:"expire_at,omitempty" dynamodbav:"expire_at,omitempty"`
}

// Expired reports whether the comment's expiry timestamp has passed.
// Comments without an expiry never expire.
func (c Comment) Expired(now time.Time) bool {
	return c.ExpireAt != 0 && c.ExpireAt <= now.Unix()
}

// TTLOption is a named expiry policy for new comments. The zero value means
// comments never expire.
type TTLOption time.Duration

// TTLNever disables comment expiry.
const TTLNever TTLOption = 0

// ParseTTLOption parses "never" (or empty) and Go duration strings.
func ParseTTLOption(s string) (TTLOption, error) {
	if s == "" || s == "never" {
		return TTLNever, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return TTLNever, fmt.Errorf("invalid ttl option %q: %w", s, err)
	}
	if d <= 0 {
		return TTLNever, fmt.Errorf("invalid ttl option %q: must be positive", s)
	}
	return TTLOption(d), nil
}

// ExpiryFrom returns the unix-seconds expiry for a comment created at now,
// or zero if the policy is "never".
func (o TTLOption) ExpiryFrom(now time.Time) int64 {
	if o == TTLNever {
		return 0
	}
	return now.Add(time.Duration(o)).Unix()
}

// CommentStore is the durable, time-ordered comment storage.
type CommentStore interface {
	// PutComment writes a new comment with a server-assigned timestamp and
	// returns the stored record. Fails with ErrDuplicateComment if a comment
	// with the same (name, time) key already exists.
	PutComment(ctx context.Context, name, comment, room string) (Comment, error)

	// GetLatestComments returns up to n non-expired comments, newest first.
	// Count satisfaction is best-effort: under heavy expiry fewer than n may
	// be returned.
	GetLatestComments(ctx context.Context, room string, n int) ([]Comment, error)

	// GetRangeComments returns all non-expired comments with time > since,
	// newest first.
	GetRangeComments(ctx context.Context, room, since string) ([]Comment, error)

	// GetAllComments returns all non-expired comments in the room, newest
	// first.
	GetAllComments(ctx context.Context, room string) ([]Comment, error)
}

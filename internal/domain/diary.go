package domain

import "context"

// DiaryEntry is a comment saved into a user's personal diary.
// SavedTime is the server-assigned sort key, decimal seconds since epoch.
type DiaryEntry struct {
	UserName     string `json:"user_name" dynamodbav:"user_name"`
	SavedTime    string `json:"saved_time" dynamodbav:"saved_time"`
	OriginalName string `json:"original_name" dynamodbav:"original_name"`
	OriginalTime string `json:"original_time" dynamodbav:"original_time"`
	Comment      string `json:"comment" dynamodbav:"comment"`
	ChatRoom     string `json:"chat_room" dynamodbav:"chat_room"`
}

// DiaryStore is the durable per-user diary storage. Entries have no TTL.
type DiaryStore interface {
	// SaveEntry writes a new entry with a server-assigned saved time and
	// returns the stored record. Overwrite semantics are acceptable since
	// the saved time is generated server-side.
	SaveEntry(ctx context.Context, user, originalName, originalTime, comment, room string) (DiaryEntry, error)

	// GetEntries returns all entries for a user, newest saved time first.
	GetEntries(ctx context.Context, user string) ([]DiaryEntry, error)

	// DeleteEntry removes the entry with the exact (user, savedTime) key.
	// Idempotent: deleting an absent key is not an error. The bool reports
	// whether an entry existed.
	DeleteEntry(ctx context.Context, user, savedTime string) (bool, error)
}

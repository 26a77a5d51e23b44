package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jonboulle/clockwork"

	"github.com/oranie/livechat/internal/domain"
	"github.com/oranie/livechat/internal/metrics"
)

// DiaryStore implements domain.DiaryStore against the diary table keyed
// (user_name, saved_time). Entries have no TTL, so reads skip the expiry
// filter entirely.
type DiaryStore struct {
	db    API
	table string
	clock clockwork.Clock
}

func NewDiaryStore(db API, table string, clock clockwork.Clock) *DiaryStore {
	return &DiaryStore{db: db, table: table, clock: clock}
}

// SaveEntry writes a diary entry with a server-assigned saved time. The
// write is unconditional: the saved time is effectively unique, so
// overwrite semantics are acceptable.
func (s *DiaryStore) SaveEntry(ctx context.Context, user, originalName, originalTime, comment, room string) (domain.DiaryEntry, error) {
	entry := domain.DiaryEntry{
		UserName:     user,
		SavedTime:    formatTimestamp(s.clock.Now()),
		OriginalName: originalName,
		OriginalTime: originalTime,
		Comment:      comment,
		ChatRoom:     room,
	}

	item, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return domain.DiaryEntry{}, fmt.Errorf("failed to marshal diary entry: %w", err)
	}

	start := s.clock.Now()
	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	metrics.StoreOpDuration.WithLabelValues("save_entry").Observe(s.clock.Since(start).Seconds())
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("save_entry", "error").Inc()
		return domain.DiaryEntry{}, fmt.Errorf("%w: save diary entry: %v", domain.ErrStoreUnavailable, err)
	}

	metrics.StoreOpsTotal.WithLabelValues("save_entry", "ok").Inc()
	return entry, nil
}

// GetEntries returns all entries for a user, newest saved time first,
// draining pagination fully.
func (s *DiaryStore) GetEntries(ctx context.Context, user string) ([]domain.DiaryEntry, error) {
	start := s.clock.Now()
	defer func() {
		metrics.StoreOpDuration.WithLabelValues("diary_entries").Observe(s.clock.Since(start).Seconds())
	}()

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    aws.String("#U = :user"),
		ExpressionAttributeNames:  map[string]string{"#U": "user_name"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":user": &types.AttributeValueMemberS{Value: user}},
		ScanIndexForward:          aws.Bool(false),
	}

	var entries []domain.DiaryEntry
	pages := 0
	for {
		out, err := s.db.Query(ctx, input)
		if err != nil {
			metrics.StoreOpsTotal.WithLabelValues("diary_entries", "error").Inc()
			return nil, fmt.Errorf("%w: diary entries: %v", domain.ErrStoreUnavailable, err)
		}
		pages++

		var page []domain.DiaryEntry
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diary entries: %w", err)
		}
		entries = append(entries, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	metrics.StorePagesDrained.Observe(float64(pages))
	metrics.StoreOpsTotal.WithLabelValues("diary_entries", "ok").Inc()
	return entries, nil
}

// DeleteEntry removes the entry with the exact (user, savedTime) key.
// Idempotent; the bool reports whether a row existed before the call.
func (s *DiaryStore) DeleteEntry(ctx context.Context, user, savedTime string) (bool, error) {
	start := s.clock.Now()
	out, err := s.db.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"user_name":  &types.AttributeValueMemberS{Value: user},
			"saved_time": &types.AttributeValueMemberS{Value: savedTime},
		},
		ReturnValues: types.ReturnValueAllOld,
	})
	metrics.StoreOpDuration.WithLabelValues("delete_entry").Observe(s.clock.Since(start).Seconds())
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("delete_entry", "error").Inc()
		return false, fmt.Errorf("%w: delete diary entry: %v", domain.ErrStoreUnavailable, err)
	}

	metrics.StoreOpsTotal.WithLabelValues("delete_entry", "ok").Inc()
	return len(out.Attributes) > 0, nil
}

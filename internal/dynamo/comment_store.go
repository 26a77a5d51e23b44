package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jonboulle/clockwork"

	"github.com/oranie/livechat/internal/domain"
	"github.com/oranie/livechat/internal/metrics"
)

// overFetchFactor compensates for rows dropped by the expiry filter on the
// latest-N path. A heuristic, not a guarantee: under heavy expiry fewer than
// the requested count may be returned.
const overFetchFactor = 2

// CommentStore implements domain.CommentStore against the chat table and its
// chat_room/time GSI.
type CommentStore struct {
	db    API
	table string
	index string
	ttl   domain.TTLOption
	clock clockwork.Clock
}

func NewCommentStore(db API, table, index string, ttl domain.TTLOption, clock clockwork.Clock) *CommentStore {
	return &CommentStore{db: db, table: table, index: index, ttl: ttl, clock: clock}
}

// PutComment writes a new comment keyed (name, server-assigned time). The
// conditional insert rejects an existing key with ErrDuplicateComment rather
// than overwriting; with microsecond timestamps a collision is practically
// impossible, but the contract holds for idempotency testing.
func (s *CommentStore) PutComment(ctx context.Context, name, comment, room string) (domain.Comment, error) {
	now := s.clock.Now()
	record := domain.Comment{
		Name:     name,
		Time:     formatTimestamp(now),
		Comment:  comment,
		ChatRoom: room,
		ExpireAt: s.ttl.ExpiryFrom(now),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to marshal comment: %w", err)
	}

	start := s.clock.Now()
	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#N) AND attribute_not_exists(#T)"),
		ExpressionAttributeNames: map[string]string{
			"#N": "name",
			"#T": "time",
		},
	})
	metrics.StoreOpDuration.WithLabelValues("put_comment").Observe(s.clock.Since(start).Seconds())

	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			metrics.StoreOpsTotal.WithLabelValues("put_comment", "conflict").Inc()
			return domain.Comment{}, domain.ErrDuplicateComment
		}
		metrics.StoreOpsTotal.WithLabelValues("put_comment", "error").Inc()
		return domain.Comment{}, fmt.Errorf("%w: put comment: %v", domain.ErrStoreUnavailable, err)
	}

	metrics.StoreOpsTotal.WithLabelValues("put_comment", "ok").Inc()
	return record, nil
}

// GetLatestComments returns up to n live comments, newest first. The query
// over-fetches to compensate for expired rows dropped by the filter; count
// satisfaction is best-effort.
func (s *CommentStore) GetLatestComments(ctx context.Context, room string, n int) ([]domain.Comment, error) {
	start := s.clock.Now()
	out, err := s.db.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 aws.String(s.index),
		KeyConditionExpression:    aws.String("#R = :room"),
		ExpressionAttributeNames:  map[string]string{"#R": "chat_room"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":room": &types.AttributeValueMemberS{Value: room}},
		ScanIndexForward:          aws.Bool(false),
		Limit:                     aws.Int32(int32(overFetchFactor * n)),
	})
	metrics.StoreOpDuration.WithLabelValues("latest_comments").Observe(s.clock.Since(start).Seconds())
	if err != nil {
		metrics.StoreOpsTotal.WithLabelValues("latest_comments", "error").Inc()
		return nil, fmt.Errorf("%w: latest comments: %v", domain.ErrStoreUnavailable, err)
	}

	var comments []domain.Comment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &comments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
	}

	live := FilterExpired(comments, s.clock.Now())
	if len(live) > n {
		live = live[:n]
	}

	metrics.StoreOpsTotal.WithLabelValues("latest_comments", "ok").Inc()
	return live, nil
}

// GetRangeComments returns every live comment with time strictly greater
// than since, newest first, draining pagination fully before filtering.
func (s *CommentStore) GetRangeComments(ctx context.Context, room, since string) ([]domain.Comment, error) {
	return s.queryAll(ctx, "range_comments", &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.index),
		KeyConditionExpression: aws.String("#R = :room AND #T > :since"),
		ExpressionAttributeNames: map[string]string{
			"#R": "chat_room",
			"#T": "time",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":room":  &types.AttributeValueMemberS{Value: room},
			":since": &types.AttributeValueMemberS{Value: since},
		},
		ScanIndexForward: aws.Bool(false),
	})
}

// GetAllComments returns every live comment in the room, newest first.
func (s *CommentStore) GetAllComments(ctx context.Context, room string) ([]domain.Comment, error) {
	return s.queryAll(ctx, "all_comments", &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 aws.String(s.index),
		KeyConditionExpression:    aws.String("#R = :room"),
		ExpressionAttributeNames:  map[string]string{"#R": "chat_room"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":room": &types.AttributeValueMemberS{Value: room}},
		ScanIndexForward:          aws.Bool(false),
	})
}

// queryAll drains a paginated query completely, then applies the expiry
// filter over the whole result set. Draining before filtering bounds the
// round trips to exactly the number of pages, independent of how many rows
// expire. A failure mid-drain fails the whole call; partial results are
// never returned.
func (s *CommentStore) queryAll(ctx context.Context, operation string, input *dynamodb.QueryInput) ([]domain.Comment, error) {
	start := s.clock.Now()
	defer func() {
		metrics.StoreOpDuration.WithLabelValues(operation).Observe(s.clock.Since(start).Seconds())
	}()

	var comments []domain.Comment
	pages := 0
	for {
		out, err := s.db.Query(ctx, input)
		if err != nil {
			metrics.StoreOpsTotal.WithLabelValues(operation, "error").Inc()
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrStoreUnavailable, operation, err)
		}
		pages++

		var page []domain.Comment
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
		}
		comments = append(comments, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	metrics.StorePagesDrained.Observe(float64(pages))
	metrics.StoreOpsTotal.WithLabelValues(operation, "ok").Inc()
	return FilterExpired(comments, s.clock.Now()), nil
}

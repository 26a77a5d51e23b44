// Package dynamo implements the comment and diary stores on DynamoDB.
//
// Comments live in a table keyed (name, time) with a chat_room/time GSI for
// the room-ordered read paths; diary entries live in a table keyed
// (user_name, saved_time). Paginated queries are always drained fully before
// expiry filtering so a call costs exactly one round trip per page.
package dynamo

package config

import (
	"fmt"
	"os"

	"github.com/oranie/livechat/internal/domain"
)

type Config struct {
	AppEnv    string
	Port      string
	LogLevel  string
	LogFormat string

	// DynamoDB settings. DynamoEndpoint overrides the SDK endpoint for
	// dynamodb-local; static credentials are only used together with it.
	AWSRegion       string
	DynamoEndpoint  string
	AWSAccessKeyID  string
	AWSSecretKey    string
	ChatTable       string
	DiaryTable      string
	ChatRoomIndex   string
	DefaultChatRoom string

	// CommentTTL is the expiry policy applied to new comments.
	CommentTTL domain.TTLOption
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		AWSRegion:       getEnv("AWS_REGION", "ap-northeast-1"),
		DynamoEndpoint:  getEnv("DYNAMO_ENDPOINT", ""),
		AWSAccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		ChatTable:       getEnv("CHAT_TABLE", "chat"),
		DiaryTable:      getEnv("DIARY_TABLE", "diary"),
		ChatRoomIndex:   getEnv("CHAT_ROOM_INDEX", "chat_room_time_idx"),
		DefaultChatRoom: getEnv("DEFAULT_CHAT_ROOM", "chat"),
	}

	if cfg.ChatTable == "" {
		return nil, fmt.Errorf("CHAT_TABLE is required")
	}
	if cfg.DiaryTable == "" {
		return nil, fmt.Errorf("DIARY_TABLE is required")
	}
	if cfg.ChatRoomIndex == "" {
		return nil, fmt.Errorf("CHAT_ROOM_INDEX is required")
	}

	ttl, err := domain.ParseTTLOption(getEnv("COMMENT_TTL", "never"))
	if err != nil {
		return nil, fmt.Errorf("COMMENT_TTL: %w", err)
	}
	cfg.CommentTTL = ttl

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

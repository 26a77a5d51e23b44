package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment_Expired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name     string
		expireAt int64
		want     bool
	}{
		{"no expiry set", 0, false},
		{"expiry in the future", now.Unix() + 60, false},
		{"expiry exactly now", now.Unix(), true},
		{"expiry in the past", now.Unix() - 60, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Comment{ExpireAt: tt.expireAt}
			assert.Equal(t, tt.want, c.Expired(now))
		})
	}
}

func TestParseTTLOption(t *testing.T) {
	tests := []struct {
		input   string
		want    TTLOption
		wantErr bool
	}{
		{"", TTLNever, false},
		{"never", TTLNever, false},
		{"24h", TTLOption(24 * time.Hour), false},
		{"90m", TTLOption(90 * time.Minute), false},
		{"garbage", TTLNever, true},
		{"-1h", TTLNever, true},
		{"0s", TTLNever, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTTLOption(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTTLOption_ExpiryFrom(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.Zero(t, TTLNever.ExpiryFrom(now))
	assert.Equal(t, now.Unix()+3600, TTLOption(time.Hour).ExpiryFrom(now))
}

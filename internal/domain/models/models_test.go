package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "naive with microseconds",
			in:   `"2025-06-01T12:00:00.123456"`,
			want: time.Date(2025, 6, 1, 12, 0, 0, 123456000, time.Local),
		},
		{
			name: "naive whole seconds",
			in:   `"2025-06-01T12:00:00"`,
			want: time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local),
		},
		{
			name: "utc",
			in:   `"2025-06-01T12:00:00Z"`,
			want: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "with offset",
			in:   `"2025-06-01T12:00:00.5+03:00"`,
			want: time.Date(2025, 6, 1, 9, 0, 0, 500000000, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v, want %v", ts.Time, tt.want)
		})
	}
}

func TestTimestampNullAndInvalid(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
}

func TestClickRecordFromAPI(t *testing.T) {
	var rec ClickRecord
	body := `{"timestamp":"2025-06-01T12:01:00.654321","ip_address":null,"user_agent":null}`
	require.NoError(t, json.Unmarshal([]byte(body), &rec))

	assert.Equal(t, 654321000, rec.Timestamp.Nanosecond())
	assert.Empty(t, rec.IPAddress)
	assert.Empty(t, rec.UserAgent)
}

func TestTimestampRoundTrip(t *testing.T) {
	in := URLStats{ShortenedURL: ShortenedURL{
		Shortcode: "abc",
		CreatedAt: Timestamp{Time: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"created_at":"2025-06-01T12:00:00Z"`)

	var out URLStats
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt.Time))
}

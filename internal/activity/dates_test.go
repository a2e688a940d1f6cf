package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      time.Time
		hasOffset bool
	}{
		{
			name:      "fractional seconds with numeric offset",
			raw:       "2024-03-05T10:15:30.123+0000",
			want:      time.Date(2024, 3, 5, 10, 15, 30, 123000000, time.UTC),
			hasOffset: true,
		},
		{
			name:      "whole seconds with numeric offset",
			raw:       "2024-03-05T10:15:30+0200",
			want:      time.Date(2024, 3, 5, 8, 15, 30, 0, time.UTC),
			hasOffset: true,
		},
		{
			name:      "fractional seconds with Z",
			raw:       "2024-03-05T10:15:30.5Z",
			want:      time.Date(2024, 3, 5, 10, 15, 30, 500000000, time.UTC),
			hasOffset: true,
		},
		{
			name:      "whole seconds with Z",
			raw:       "2024-03-05T10:15:30Z",
			want:      time.Date(2024, 3, 5, 10, 15, 30, 0, time.UTC),
			hasOffset: true,
		},
		{
			name:      "colon offset",
			raw:       "2024-03-05T10:15:30-05:00",
			want:      time.Date(2024, 3, 5, 15, 15, 30, 0, time.UTC),
			hasOffset: true,
		},
		{
			name:      "bare date",
			raw:       "2024-03-05",
			want:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			hasOffset: false,
		},
		{
			name:      "surrounding whitespace",
			raw:       "  2024-03-05 ",
			want:      time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			hasOffset: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseInstant(tt.raw)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got.Time), "got %s, want %s", got.Time, tt.want)
			assert.Equal(t, tt.hasOffset, got.HasOffset)
		})
	}
}

func TestParseInstantRejects(t *testing.T) {
	for _, raw := range []string{"", "   ", "yesterday", "05/03/2024", "2024-13-45"} {
		t.Run(raw, func(t *testing.T) {
			_, ok := ParseInstant(raw)
			assert.False(t, ok)
		})
	}
}

func TestAtOrAfter(t *testing.T) {
	mustParse := func(raw string) Instant {
		t.Helper()
		instant, ok := ParseInstant(raw)
		require.True(t, ok, raw)
		return instant
	}

	t.Run("both aware", func(t *testing.T) {
		a := mustParse("2024-03-05T10:00:00+0200")
		b := mustParse("2024-03-05T08:00:00Z")
		assert.True(t, AtOrAfter(a, b))
		assert.True(t, AtOrAfter(b, a))
	})

	t.Run("both naive", func(t *testing.T) {
		assert.True(t, AtOrAfter(mustParse("2024-03-06"), mustParse("2024-03-05")))
		assert.False(t, AtOrAfter(mustParse("2024-03-04"), mustParse("2024-03-05")))
	})

	t.Run("naive side is taken as UTC", func(t *testing.T) {
		naive := mustParse("2024-03-05")
		aware := mustParse("2024-03-05T01:00:00+0200")

		assert.False(t, AtOrAfter(aware, naive))
		assert.True(t, AtOrAfter(naive, aware))
	})

	t.Run("equal wall clock agrees across offset kinds", func(t *testing.T) {
		naive := mustParse("2024-03-05")
		aware := mustParse("2024-03-05T00:00:00Z")

		assert.Equal(t, AtOrAfter(aware, aware), AtOrAfter(naive, aware))
		assert.Equal(t, AtOrAfter(aware, aware), AtOrAfter(aware, naive))
		assert.True(t, AtOrAfter(naive, aware))
	})

	t.Run("naive time in a non-UTC location keeps its wall clock", func(t *testing.T) {
		loc := time.FixedZone("AEST", 10*60*60)
		naive := Instant{Time: time.Date(2024, 3, 5, 9, 0, 0, 0, loc)}
		aware := Aware(time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC))

		assert.True(t, AtOrAfter(naive, aware))
		assert.True(t, AtOrAfter(aware, naive))
	})
}

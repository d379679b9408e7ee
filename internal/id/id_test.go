package id

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEntryID(t *testing.T) {
	tests := []struct {
		year, month, seq int
		want             string
	}{
		{2025, 1, 1, "2025-01-001"},
		{2025, 12, 99, "2025-12-099"},
		{2025, 1, 123, "2025-01-123"},
	}
	for _, tt := range tests {
		got := FormatEntryID(tt.year, tt.month, tt.seq)
		assert.Equal(t, tt.want, got)
	}
}

func TestFormatLineID(t *testing.T) {
	tests := []struct {
		entryID string
		line    int
		want    string
	}{
		{"2025-01-001", 0, "2025-01-001a"},
		{"2025-01-001", 1, "2025-01-001b"},
		{"2025-01-001", 25, "2025-01-001z"},
		{"2025-01-001", 26, "2025-01-001aa"},
		{"2025-01-001", 27, "2025-01-001ab"},
	}
	for _, tt := range tests {
		got := FormatLineID(tt.entryID, tt.line)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.entryID, EntryGroup(got))
	}
}

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		input               string
		wantYear, wantMonth int
		wantSeq             int
	}{
		{"2025-01-001", 2025, 1, 1},
		{"2025-12-099", 2025, 12, 99},
		{"2025-01-001a", 2025, 1, 1},
		{"2025-01-001b", 2025, 1, 1},
	}
	for _, tt := range tests {
		year, month, seq, err := ParseEntryID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.wantYear, year)
		assert.Equal(t, tt.wantMonth, month)
		assert.Equal(t, tt.wantSeq, seq)
	}
}

func TestParseEntryID_Errors(t *testing.T) {
	badInputs := []string{
		"",
		"not-valid",
		"2025-01",
		"xxxx-01-001",
	}
	for _, input := range badInputs {
		_, _, _, err := ParseEntryID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestNextEntryID(t *testing.T) {
	jan := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-001", NextEntryID(nil, jan))

	existing := []string{"2025-01-001", "2025-01-004", "2025-02-009", "garbage"}
	assert.Equal(t, "2025-01-005", NextEntryID(existing, jan))
	assert.Equal(t, "2025-02-010", NextEntryID(existing, jan.AddDate(0, 1, 0)))
}

func TestNewAccountID(t *testing.T) {
	a, b := NewAccountID(), NewAccountID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

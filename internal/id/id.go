package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewAccountID returns a random, immutable account identifier.
func NewAccountID() string {
	return uuid.NewString()
}

// FormatEntryID returns an entry ID like "2025-01-001".
func FormatEntryID(year, month, seq int) string {
	return fmt.Sprintf("%04d-%02d-%03d", year, month, seq)
}

// FormatLineID returns a line ID like "2025-01-001a" (line 0='a', 1='b', etc.).
// Past 'z' the suffix continues as "aa", "ab", ...
func FormatLineID(entryID string, line int) string {
	var suffix []byte
	for n := line; ; n = n/26 - 1 {
		suffix = append([]byte{byte('a' + n%26)}, suffix...)
		if n < 26 {
			break
		}
	}
	return entryID + string(suffix)
}

// ParseEntryID parses "2025-01-001" into year, month, seq.
func ParseEntryID(id string) (year, month, seq int, err error) {
	base := EntryGroup(id)

	parts := strings.SplitN(base, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid entry ID format: %q", id)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year in entry ID %q: %w", id, err)
	}

	month, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month in entry ID %q: %w", id, err)
	}

	seq, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid sequence in entry ID %q: %w", id, err)
	}

	return year, month, seq, nil
}

// EntryGroup strips the line suffix from a line ID.
// "2025-01-001a" -> "2025-01-001"
func EntryGroup(lineID string) string {
	i := len(lineID)
	for i > 0 && lineID[i-1] >= 'a' && lineID[i-1] <= 'z' {
		i--
	}
	return lineID[:i]
}

// NextEntryID returns the first unused entry ID in the month of date,
// given the IDs already allocated. Malformed IDs are ignored.
func NextEntryID(existing []string, date time.Time) string {
	year, month := date.Year(), int(date.Month())
	maxSeq := 0
	for _, e := range existing {
		y, m, seq, err := ParseEntryID(e)
		if err != nil || y != year || m != month {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatEntryID(year, month, maxSeq+1)
}

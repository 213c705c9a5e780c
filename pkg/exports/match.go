package exports

import (
	"fmt"
	"strings"
)

// MatchEntry reports whether some entry matches the (path, client) pair.
// Paths compare exactly; clients compare case-insensitively. Options are
// ignored: an entry is identified by where it points and who it admits, not
// by how it is configured.
func MatchEntry(entries []Entry, path, client string) bool {
	for _, entry := range entries {
		if entry.Path == path && strings.EqualFold(entry.Client, client) {
			return true
		}
	}
	return false
}

// FilterEntries returns entries with every match for (path, client) removed.
//
// Returns ErrExportNotFound if no entry matched, so callers can tell
// "successfully removed" apart from "nothing to remove".
func FilterEntries(entries []Entry, path, client string) ([]Entry, error) {
	found := false
	remaining := make([]Entry, 0, len(entries))

	for _, entry := range entries {
		if entry.Path == path && strings.EqualFold(entry.Client, client) {
			found = true
			continue
		}
		remaining = append(remaining, entry)
	}

	if !found {
		return nil, fmt.Errorf("no entry for %s %s: %w", path, client, ErrExportNotFound)
	}

	return remaining, nil
}

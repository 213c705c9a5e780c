package exports

import (
	"fmt"
	"strings"
)

// Entry is a single export rule: one path, one client, and the options the
// client gets. Options is carried as the serialized option string; an empty
// string means the client token had no parenthesized group.
//
// Entries are identified by (Path, Client) with the client compared
// case-insensitively. Options never participate in identity.
type Entry struct {
	Path    string
	Client  string
	Options string
}

// ParseLine parses one registry line into its entries.
//
// The line is split with shell-style word splitting: whitespace separates
// tokens, single or double quotes group a token containing whitespace, and
// an unquoted "#" starts a comment that discards the rest of the line. The
// first token is the export path; every following token is a host group in
// one of three forms:
//
//	client(opts)    client with options
//	client          client without options
//	(opts)          options for all clients, equivalent to *(opts)
//
// An empty or comment-only line yields no entries. Unbalanced parentheses in
// a host group or an unterminated quote return ErrMalformedEntry.
func ParseLine(line string) ([]Entry, error) {
	words, err := splitWords(line)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, nil
	}

	path := words[0]
	entries := make([]Entry, 0, len(words)-1)

	for _, word := range words[1:] {
		client, opts, err := splitHostGroup(word)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Path: path, Client: client, Options: opts})
	}

	return entries, nil
}

// FormatLine serializes a group of entries sharing one path back into a
// registry line. The path is quoted if it contains whitespace; each client
// is rendered as "client(options)" or bare "client" when it has none.
func FormatLine(entries []Entry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(quotePath(entries[0].Path))

	for _, entry := range entries {
		b.WriteByte(' ')
		b.WriteString(entry.Client)
		if entry.Options != "" {
			b.WriteByte('(')
			b.WriteString(entry.Options)
			b.WriteByte(')')
		}
	}

	return b.String()
}

func quotePath(path string) string {
	if strings.ContainsAny(path, " \t") {
		return `"` + path + `"`
	}
	return path
}

// splitHostGroup splits a host group token into client and option string.
func splitHostGroup(word string) (client, opts string, err error) {
	open := strings.IndexByte(word, '(')
	closing := strings.LastIndexByte(word, ')')

	if open == -1 && closing == -1 {
		return word, "", nil
	}

	// Both parentheses must be present, in order, with ")" last.
	if open == -1 || closing != len(word)-1 || closing < open {
		return "", "", fmt.Errorf("host group %q: unbalanced parentheses: %w", word, ErrMalformedEntry)
	}

	client = word[:open]
	if client == "" {
		// A bare "(opts)" group applies to all clients.
		client = "*"
	}

	return client, word[open+1 : closing], nil
}

// splitWords tokenizes a line shell-style. Quoted sections keep their
// content verbatim (including "#"), an unquoted "#" truncates the line, and
// a backslash escapes the next byte.
func splitWords(line string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false

	flush := func() {
		if inWord {
			words = append(words, cur.String())
			cur.Reset()
			inWord = false
		}
	}

	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case c == '#':
			i = len(line)

		case c == ' ' || c == '\t':
			flush()
			i++

		case c == '"' || c == '\'':
			end := strings.IndexByte(line[i+1:], c)
			if end == -1 {
				return nil, fmt.Errorf("unterminated %c-quote in %q: %w", c, line, ErrMalformedEntry)
			}
			cur.WriteString(line[i+1 : i+1+end])
			inWord = true
			i += end + 2

		case c == '\\' && i+1 < len(line):
			cur.WriteByte(line[i+1])
			inWord = true
			i += 2

		default:
			cur.WriteByte(c)
			inWord = true
			i++
		}
	}
	flush()

	return words, nil
}

package exports

import (
	"sort"
	"strings"
)

// OptionSet holds the parsed export options of a single entry. A flag option
// such as "ro" or "no_root_squash" stores its name as both key and value; a
// valued option such as "sec=sys" stores name and value separately.
type OptionSet map[string]string

// ParseOptionList parses a comma-separated option list into an OptionSet.
//
// Tokens without "=" become flags (key == value == token); tokens with "="
// split on the first occurrence. Empty input and empty tokens yield nothing,
// so ParseOptionList("") returns an empty set.
func ParseOptionList(s string) OptionSet {
	opts := make(OptionSet)
	if s == "" {
		return opts
	}

	for _, tok := range strings.Split(s, ",") {
		if tok == "" {
			continue
		}
		if key, val, found := strings.Cut(tok, "="); found {
			opts[key] = val
		} else {
			opts[tok] = tok
		}
	}

	return opts
}

// Format serializes the set into the canonical comma-separated form: keys in
// sorted lexical order, flags rendered bare, valued options as "key=value".
//
// The second return value reports whether the set had any options at all.
// A false return is the absence marker: it tells the caller to omit the
// parenthesized option group entirely, which is different from rendering an
// empty "()" group.
func (o OptionSet) Format() (string, bool) {
	if len(o) == 0 {
		return "", false
	}

	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if o[key] == key {
			parts = append(parts, key)
		} else {
			parts = append(parts, key+"="+o[key])
		}
	}

	return strings.Join(parts, ","), true
}

// ComposeParams are the inputs for building an option string from the
// high-level export settings.
type ComposeParams struct {
	// ReadOnly selects "ro" when true, "rw" otherwise.
	ReadOnly bool

	// RootSquash maps requests from uid/gid 0 to the anonymous identity.
	// Squashing is the exports default, so only disabling it emits an
	// option ("no_root_squash").
	RootSquash bool

	// AllSquash maps all requests to the anonymous identity ("all_squash").
	AllSquash bool

	// Security is a colon-delimited list of security flavors to negotiate
	// (e.g. "krb5p:krb5i:sys"). Empty omits the "sec=" option.
	Security string

	// Extra carries free-form additional options, already in
	// comma-separated form.
	Extra string

	// MergeExtras controls how Extra is combined with the composed set.
	// When false, Extra is appended verbatim after the composed options,
	// even if that duplicates a key. When true, Extra is parsed and merged
	// into the set first, so its keys override the composed ones and the
	// output stays sorted and duplicate-free.
	MergeExtras bool
}

// ComposeOptions builds the option string for a new export entry.
func ComposeOptions(p ComposeParams) string {
	opts := make(OptionSet)

	if p.ReadOnly {
		opts["ro"] = "ro"
	} else {
		opts["rw"] = "rw"
	}
	if !p.RootSquash {
		opts["no_root_squash"] = "no_root_squash"
	}
	if p.AllSquash {
		opts["all_squash"] = "all_squash"
	}
	if p.Security != "" {
		opts["sec"] = p.Security
	}

	if p.MergeExtras && p.Extra != "" {
		for key, val := range ParseOptionList(p.Extra) {
			opts[key] = val
		}
	}

	out, _ := opts.Format()

	if !p.MergeExtras && p.Extra != "" {
		if out != "" {
			out += ","
		}
		out += p.Extra
	}

	return out
}

// Package hosts rewrites the block of a hosts file that githubdns owns while
// leaving every other line alone.
package hosts

import (
	"strings"

	"githubdns/pkg/lookup"
)

// Marker opens and closes the managed block.
const Marker = "# ----Generated By githubdns ---"

// Reconcile drops the previous managed block and any uncommented line that
// names a resolved domain, then appends a fresh block. Domains without an
// address are neither removed nor written. Lines are split and joined with
// delim; the rest of the document is kept verbatim and in order.
func Reconcile(content, delim string, records lookup.Records) string {
	if delim == "" {
		delim = "\n"
	}
	resolved := records.Resolved()

	var lines []string
	if content != "" {
		lines = strings.Split(content, delim)
	}

	kept := make([]string, 0, len(lines)+len(resolved)+2)
	for _, l := range lines {
		if strings.TrimRight(l, "\r\n") == Marker {
			continue
		}
		if !isComment(l) && referencesAny(l, resolved) {
			continue
		}
		kept = append(kept, l)
	}

	kept = append(kept, Marker)
	for _, r := range resolved {
		kept = append(kept, Entry(r))
	}
	kept = append(kept, Marker)

	return strings.Join(kept, delim)
}

// Entry renders a managed line.
func Entry(r lookup.Record) string {
	return r.Address + "\t " + r.Domain
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "#")
}

// referencesAny reports whether one of the whitespace separated tokens of
// line, ignoring a trailing # comment, is a resolved domain.
// "notgithub.com" does not reference github.com.
func referencesAny(line string, records lookup.Records) bool {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	for _, token := range strings.Fields(line) {
		for _, r := range records {
			if token == r.Domain {
				return true
			}
		}
	}
	return false
}

package hosts

import (
	"strings"
	"testing"

	"githubdns/pkg/lookup"
)

var githubRecords = lookup.Records{
	{Domain: "github.com", Address: "192.30.253.112"},
	{Domain: "github.global.ssl.fastly.net", Address: "151.101.185.194"},
	{Domain: "codeload.github.com", Address: ""},
}

func TestReconcileEmptyContent(t *testing.T) {
	records := lookup.Records{{Domain: "github.com", Address: "192.30.253.112"}}
	for name, delim := range Delimiters {
		t.Run(name, func(t *testing.T) {
			got := Reconcile("", delim, records)
			expected := Marker + delim + "192.30.253.112\t github.com" + delim + Marker
			if got != expected {
				t.Errorf("Expected %q, got %q", expected, got)
			}
		})
	}
}

func TestReconcileReplacesPreviousBlock(t *testing.T) {
	for name, delim := range Delimiters {
		t.Run(name, func(t *testing.T) {
			content := strings.Join([]string{
				"127.0.0.1\tlocalhost",
				"# 1.1.1.1 github.com stays because it is a comment",
				"",
				Marker,
				"10.0.0.1\t github.com",
				Marker,
				"10.0.0.2 github.global.ssl.fastly.net",
				"10.0.0.3 notgithub.com",
				"10.0.0.4 codeload.github.com",
			}, delim)

			got := Reconcile(content, delim, githubRecords)
			expected := strings.Join([]string{
				"127.0.0.1\tlocalhost",
				"# 1.1.1.1 github.com stays because it is a comment",
				"",
				"10.0.0.3 notgithub.com",
				"10.0.0.4 codeload.github.com",
				Marker,
				"192.30.253.112\t github.com",
				"151.101.185.194\t github.global.ssl.fastly.net",
				Marker,
			}, delim)
			if got != expected {
				t.Errorf("Expected\n%q\ngot\n%q", expected, got)
			}
		})
	}
}

func TestReconcileIdempotent(t *testing.T) {
	contents := []string{
		"",
		"127.0.0.1 localhost\n",
		"127.0.0.1 localhost\n::1 localhost\n# comment\n\n",
		"1.2.3.4 github.com\n" + Marker + "\n" + Marker,
		Marker + "\n5.6.7.8\t github.com\n",
	}
	for _, content := range contents {
		first := Reconcile(content, "\n", githubRecords)
		second := Reconcile(first, "\n", githubRecords)
		if first != second {
			t.Errorf("Reconcile is not idempotent for %q:\nfirst  %q\nsecond %q", content, first, second)
		}
		if n := strings.Count(second, Marker); n != 2 {
			t.Errorf("Expected exactly one managed block, found %d markers in %q", n, second)
		}
	}
}

func TestReconcileWholeTokenMatch(t *testing.T) {
	records := lookup.Records{{Domain: "github.com", Address: "192.30.253.112"}}
	tests := []struct {
		line    string
		removed bool
	}{
		{"1.1.1.1 notgithub.com", false},
		{"1.1.1.1 www.github.com", false},
		{"1.1.1.1 github.com.evil", false},
		{"1.1.1.1\tgithub.com", true},
		{"1.1.1.1 github.com", true},
		{"1.1.1.1 gist.github.com github.com", true},
		{"github.com", true},
		{"  # 1.1.1.1 github.com", false},
		{"1.1.1.1 github.com#old", true},
		{"1.1.1.1 github.com # pinned", true},
		{"1.1.1.1 localhost # github.com", false},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			got := Reconcile(tc.line, "\n", records)
			kept := strings.HasPrefix(got, tc.line+"\n")
			if kept == tc.removed {
				t.Errorf("line %q: expected removed=%v, got %q", tc.line, tc.removed, got)
			}
		})
	}
}

func TestReconcileNothingResolved(t *testing.T) {
	content := "127.0.0.1 localhost\n10.0.0.1 github.com"
	records := lookup.Records{{Domain: "github.com"}}

	got := Reconcile(content, "\n", records)
	expected := content + "\n" + Marker + "\n" + Marker
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestReconcileKeepsRecordOrder(t *testing.T) {
	records := lookup.Records{
		{Domain: "zeta.example.com", Address: "10.0.0.26"},
		{Domain: "alpha.example.com", Address: "10.0.0.1"},
	}
	got := Reconcile("", "\n", records)
	expected := Marker + "\n10.0.0.26\t zeta.example.com\n10.0.0.1\t alpha.example.com\n" + Marker
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestReconcileMismatchedDelimiter(t *testing.T) {
	// Content written with CRLF but split on LF keeps the carriage returns
	// on every line; the marker lines are still recognised.
	content := "127.0.0.1 localhost\r\n" + Marker + "\r\n1.1.1.1\t github.com\r\n" + Marker + "\r\n"
	records := lookup.Records{{Domain: "github.com", Address: "192.30.253.112"}}

	got := Reconcile(content, "\n", records)
	expected := "127.0.0.1 localhost\r\n" + "\n" + Marker + "\n192.30.253.112\t github.com\n" + Marker
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestReconcileKeepsIndentedMarkerComment(t *testing.T) {
	content := "127.0.0.1 localhost\n   " + Marker
	records := lookup.Records{{Domain: "github.com", Address: "192.30.253.112"}}

	got := Reconcile(content, "\n", records)
	expected := content + "\n" + Marker + "\n192.30.253.112\t github.com\n" + Marker
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestReconcileSkipsRecordsWithoutDomain(t *testing.T) {
	records := lookup.Records{
		{Domain: "", Address: "1.2.3.4"},
		{Domain: "github.com", Address: "192.30.253.112"},
	}
	first := Reconcile("", "\n", records)
	expected := Marker + "\n192.30.253.112\t github.com\n" + Marker
	if first != expected {
		t.Errorf("Expected %q, got %q", expected, first)
	}
	if second := Reconcile(first, "\n", records); second != first {
		t.Errorf("Reconcile is not idempotent:\nfirst  %q\nsecond %q", first, second)
	}
}

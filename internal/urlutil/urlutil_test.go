package urlutil

import (
	"net/url"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/base/path")
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}

	tests := []struct {
		name     string
		href     string
		wantURL  string
		wantOkay bool
	}{
		{name: "empty href", href: "", wantURL: "", wantOkay: false},
		{name: "fragment only", href: "#section", wantURL: "", wantOkay: false},
		{name: "invalid url", href: "http://[::1", wantURL: "", wantOkay: false},
		{name: "unsupported scheme", href: "mailto:test@example.com", wantURL: "", wantOkay: false},
		{name: "javascript scheme", href: "javascript:void(0)", wantURL: "", wantOkay: false},
		{name: "relative path", href: " /docs?a=1#frag ", wantURL: "https://example.com/docs?a=1", wantOkay: true},
		{name: "sibling path", href: "other#x", wantURL: "https://example.com/base/other", wantOkay: true},
		{name: "root slash", href: "/", wantURL: "https://example.com", wantOkay: true},
		{name: "absolute https", href: "https://golang.org/doc#top", wantURL: "https://golang.org/doc", wantOkay: true},
		{name: "protocol relative", href: "//cdn.example.com/app.js", wantURL: "https://cdn.example.com/app.js", wantOkay: true},
		{name: "mixed case host", href: "https://EXAMPLE.com/Docs", wantURL: "https://example.com/Docs", wantOkay: true},
		{name: "mixed case root", href: "HTTPS://Example.COM/", wantURL: "https://example.com", wantOkay: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotURL, gotOkay := Resolve(base, tt.href)
			if gotOkay != tt.wantOkay {
				t.Fatalf("unexpected ok flag: got %v want %v", gotOkay, tt.wantOkay)
			}

			if gotURL != tt.wantURL {
				t.Fatalf("unexpected resolved url: got %q want %q", gotURL, tt.wantURL)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "strips fragment", raw: "https://example.com/a#top", want: "https://example.com/a"},
		{name: "drops root slash", raw: "https://example.com/", want: "https://example.com"},
		{name: "keeps query", raw: "http://example.com/a?b=1", want: "http://example.com/a?b=1"},
		{name: "lowercases host only", raw: "https://Example.COM:8080/A/b", want: "https://example.com:8080/A/b"},
		{name: "missing scheme", raw: "example.com/a", wantErr: true},
		{name: "missing host", raw: "https:///a", wantErr: true},
		{name: "unsupported scheme", raw: "ftp://example.com/a", wantErr: true},
		{name: "invalid", raw: "://broken", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Canonical(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.String() != tt.want {
				t.Fatalf("canonical = %q; want %q", got.String(), tt.want)
			}
		})
	}
}

func TestSameHost(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com:8443/root")
	if err != nil {
		t.Fatalf("parse base url: %v", err)
	}

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "same host and port", raw: "https://example.com:8443/a", want: true},
		{name: "scheme ignored", raw: "http://example.com:8443/a", want: true},
		{name: "host case ignored", raw: "https://EXAMPLE.com:8443/a", want: true},
		{name: "different host", raw: "https://other.com:8443/a", want: false},
		{name: "different port", raw: "https://example.com/a", want: false},
		{name: "subdomain", raw: "https://www.example.com:8443/a", want: false},
		{name: "invalid url", raw: "http://[::1", want: false},
		{name: "relative url", raw: "/local", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SameHost(base, tt.raw)
			if got != tt.want {
				t.Fatalf("unexpected same-host result: got %v want %v", got, tt.want)
			}
		})
	}
}

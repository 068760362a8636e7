package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAllowlist_NilAllowsNothing(t *testing.T) {
	var a *Allowlist
	if a.Allows("anything.com") {
		t.Error("nil allowlist should not allow cross-origin hosts")
	}
}

func TestAllowlist_EmptyReturnsNil(t *testing.T) {
	for _, in := range [][]string{nil, {}, {"", " "}} {
		if a := ParseAllowlist(in); a != nil {
			t.Errorf("ParseAllowlist(%q) should return nil", in)
		}
	}
}

func TestAllowlist_Exact(t *testing.T) {
	tests := []struct {
		host   string
		wantOK bool
	}{
		// Exact match
		{"editor.example.com", true},
		{"localhost", true},

		// Subdomain match
		{"beta.editor.example.com", true},

		// Must NOT match attacker-controlled suffix
		{"editor.example.com.attacker.com", false},

		// Not in list
		{"evil.com", false},

		// With port
		{"editor.example.com:8443", true},
		{"localhost:5173", true},

		// Case insensitive
		{"EDITOR.EXAMPLE.COM", true},
	}

	a := ParseAllowlist([]string{"editor.example.com", " localhost"})
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			if got := a.Allows(tc.host); got != tc.wantOK {
				t.Errorf("Allows(%q) = %v, want %v", tc.host, got, tc.wantOK)
			}
		})
	}
}

func TestAllowlist_Port(t *testing.T) {
	a := ParseAllowlist([]string{"localhost:3000", "https://studio.example.com"})

	tests := []struct {
		host   string
		wantOK bool
	}{
		{"localhost:3000", true},
		{"localhost:3001", false},
		{"localhost", false},
		{"studio.example.com", true},
		{"studio.example.com:444", true},
	}
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			if got := a.Allows(tc.host); got != tc.wantOK {
				t.Errorf("Allows(%q) = %v, want %v", tc.host, got, tc.wantOK)
			}
		})
	}
}

func TestAllowlist_Wildcard(t *testing.T) {
	tests := []struct {
		host   string
		wantOK bool
	}{
		{"foo.internal", true},
		{"a.b.internal", true},
		{"deep.sub.corp.example.com", true},

		// Must NOT match the bare domain
		{"internal", false},

		// Must NOT match unrelated suffix
		{"notinternal", false},
		{"evil.com", false},
	}

	a := ParseAllowlist([]string{"*.internal", "*.corp.example.com"})
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			if got := a.Allows(tc.host); got != tc.wantOK {
				t.Errorf("Allows(%q) = %v, want %v", tc.host, got, tc.wantOK)
			}
		})
	}
}

func TestAllowlist_CIDR(t *testing.T) {
	tests := []struct {
		host   string
		wantOK bool
	}{
		{"10.0.0.1", true},
		{"10.0.1.50:8080", true},
		{"172.16.0.1", true},
		{"172.32.0.1", false},
		{"192.168.1.1", false},
		{"[fd00::1]:3000", true},
		{"[fe80::1]:3000", false},

		// Hostnames are never resolved
		{"example.com", false},
	}

	a := ParseAllowlist([]string{"10.0.0.0/8", "172.16.0.0/12", "fd00::/8"})
	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			if got := a.Allows(tc.host); got != tc.wantOK {
				t.Errorf("Allows(%q) = %v, want %v", tc.host, got, tc.wantOK)
			}
		})
	}
}

func TestAllowlist_AllowsOrigin(t *testing.T) {
	a := ParseAllowlist([]string{"editor.example.com"})

	tests := []struct {
		name   string
		origin string
		list   *Allowlist
		wantOK bool
	}{
		{"no origin", "", nil, true},
		{"same origin", "http://preview.test", nil, true},
		{"cross origin without list", "http://editor.example.com", nil, false},
		{"listed origin", "https://editor.example.com", a, true},
		{"unlisted origin", "https://evil.test", a, false},
		{"malformed origin", "://", a, false},
		{"null origin", "null", a, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://preview.test/live", nil)
			if tc.origin != "" {
				r.Header.Set("Origin", tc.origin)
			}
			if got := tc.list.AllowsOrigin(r); got != tc.wantOK {
				t.Errorf("AllowsOrigin(%q) = %v, want %v", tc.origin, got, tc.wantOK)
			}
		})
	}
}

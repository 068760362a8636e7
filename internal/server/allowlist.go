package server

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Allowlist controls which browser origins may open the live channel. It
// supports three entry types: exact hostnames (with subdomain matching),
// wildcard DNS patterns (*.example.com), and CIDR ranges for IP-literal
// origins (10.0.0.0/8). Entries may carry a port ("localhost:3000"), in
// which case the origin's port must match too.
//
// A nil Allowlist permits same-origin requests only.
type Allowlist struct {
	cidrs     []*net.IPNet
	wildcards []entry // host stored as ".suffix" (e.g. ".internal" from "*.internal")
	exact     []entry
}

type entry struct {
	host string // lowercased
	port string // empty matches any port
}

// ParseAllowlist parses origin host patterns. Each entry is classified as:
//   - CIDR if it contains "/" (e.g. "10.0.0.0/8")
//   - Wildcard if it starts with "*." (e.g. "*.internal")
//   - Exact hostname otherwise
//
// A scheme prefix ("https://editor.example.com") is ignored. Returns nil
// when no entry is given.
func ParseAllowlist(entries []string) *Allowlist {
	a := &Allowlist{}
	n := 0
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if i := strings.Index(raw, "://"); i >= 0 {
			raw = raw[i+3:]
		}
		raw = strings.TrimSuffix(raw, "/")
		if raw == "" {
			continue
		}
		n++

		if strings.Contains(raw, "/") {
			_, cidr, err := net.ParseCIDR(raw)
			if err == nil {
				a.cidrs = append(a.cidrs, cidr)
			}
			continue
		}

		e := splitEntry(raw)
		if strings.HasPrefix(e.host, "*.") {
			e.host = e.host[1:] // keep the dot: ".internal"
			a.wildcards = append(a.wildcards, e)
		} else {
			a.exact = append(a.exact, e)
		}
	}

	if n == 0 {
		return nil
	}
	return a
}

func splitEntry(s string) entry {
	s = strings.ToLower(s)
	if h, p, err := net.SplitHostPort(s); err == nil {
		return entry{host: h, port: p}
	}
	return entry{host: s}
}

// Allows reports whether the given host (which may include a port) is
// permitted by this allowlist. A nil Allowlist permits nothing.
func (a *Allowlist) Allows(host string) bool {
	if a == nil {
		return false
	}

	target := splitEntry(host)

	for _, e := range a.exact {
		if e.port != "" && e.port != target.port {
			continue
		}
		if target.host == e.host || strings.HasSuffix(target.host, "."+e.host) {
			return true
		}
	}

	for _, e := range a.wildcards {
		if e.port != "" && e.port != target.port {
			continue
		}
		if strings.HasSuffix(target.host, e.host) && target.host != e.host[1:] {
			return true
		}
	}

	// Origins are never resolved: only IP-literal hosts match CIDRs.
	if ip := net.ParseIP(strings.Trim(target.host, "[]")); ip != nil {
		for _, cidr := range a.cidrs {
			if cidr.Contains(ip) {
				return true
			}
		}
	}

	return false
}

// AllowsOrigin reports whether r may upgrade to the live channel. Requests
// without an Origin header (non-browser clients) and same-origin requests
// are always allowed.
func (a *Allowlist) AllowsOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return a.Allows(u.Host)
}

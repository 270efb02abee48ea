package models

import (
	"net/url"
	"strings"
	"time"
)

// Policy is an immutable snapshot of deployment configuration handed to
// each resolve call, so behavior is reproducible in tests instead of
// depending on ambient process state.
type Policy struct {
	BaseURL        string
	AllowedDomains []string
	RequireLogin   bool

	// Per-minute fixed-window caps. Zero disables a cap.
	IPRatePerMin           int
	DefaultTokenRatePerMin int

	// Issuance defaults.
	DefaultTokenTTL time.Duration // 0 means no expiry
	DefaultMaxUses  int           // 0 means unlimited

	// Daily generation quota for non-manager callers. Zero disables it.
	GenPerUserPerDay int
}

// AllowsURL reports whether raw is an absolute http(s) URL whose host is
// covered by the allow-list. An empty allow-list admits every http(s)
// destination.
func (p Policy) AllowsURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if len(p.AllowedDomains) == 0 {
		return true
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range p.AllowedDomains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

package usecase

import (
	"strings"

	"github.com/onsiteclub/account-service/internal/domain/entity"
)

// RedirectResolver classifies an incoming "return to" hint into a safe
// destination. A hint is resolved exactly once per request; the resulting
// Destination is carried through the rest of the flow unchanged.
type RedirectResolver struct {
	schemes map[string]bool
}

// NewRedirectResolver builds a resolver over the fixed allow-list of
// native schemes registered by the configured apps.
func NewRedirectResolver(allowedSchemes []string) *RedirectResolver {
	schemes := make(map[string]bool, len(allowedSchemes))
	for _, s := range allowedSchemes {
		schemes[s] = true
	}
	return &RedirectResolver{schemes: schemes}
}

// Resolve produces a safe destination for the given hint. Empty, malformed
// and off-origin hints all collapse to the web root; a hint carrying an
// allow-listed scheme is returned verbatim as a native target, with no
// further decoding.
func (r *RedirectResolver) Resolve(hint string) entity.Destination {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return entity.WebPath("/")
	}

	if idx := strings.Index(hint, "://"); idx > 0 {
		scheme := hint[:idx]
		if r.schemes[scheme] {
			return entity.NativeTarget(scheme, hint)
		}
		// Absolute URL with a scheme outside the allow-list: http/https
		// off-origin or anything else. Treating it as a path would open a
		// redirect to an arbitrary origin.
		return entity.WebPath("/")
	}

	// Protocol-relative URLs ("//evil.example") are also off-origin.
	if strings.HasPrefix(hint, "//") {
		return entity.WebPath("/")
	}

	// Same-origin navigation only uses rooted paths.
	if !strings.HasPrefix(hint, "/") {
		return entity.WebPath("/")
	}

	return entity.WebPath(hint)
}

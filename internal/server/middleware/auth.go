package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync/atomic"
)

type credentials struct {
	enabled  bool
	user     string
	password string
}

// AuthConfig holds basic auth credentials. It is swapped atomically on
// reload, so requests in flight see either the old or the new set.
type AuthConfig struct {
	current atomic.Pointer[credentials]
}

// NewAuthConfig creates an AuthConfig.
func NewAuthConfig(enabled bool, user, password string) *AuthConfig {
	c := &AuthConfig{}
	c.Update(enabled, user, password)
	return c
}

// Update replaces the credentials.
func (c *AuthConfig) Update(enabled bool, user, password string) {
	c.current.Store(&credentials{enabled: enabled, user: user, password: password})
}

// Enabled reports whether auth is currently enforced.
func (c *AuthConfig) Enabled() bool {
	creds := c.current.Load()
	return creds != nil && creds.enabled
}

// Auth creates a Basic Auth middleware.
// Paths in excludePaths will be excluded from authentication.
// Paths ending with "*" are treated as prefixes (e.g., "/debug/*" matches "/debug/foo").
func Auth(config *AuthConfig, excludePaths ...string) Middleware {
	exactExcludes := make(map[string]bool)
	var prefixExcludes []string

	for _, path := range excludePaths {
		if prefix, ok := strings.CutSuffix(path, "*"); ok {
			prefixExcludes = append(prefixExcludes, prefix)
		} else {
			exactExcludes[path] = true
		}
	}

	excluded := func(path string) bool {
		if exactExcludes[path] {
			return true
		}
		for _, prefix := range prefixExcludes {
			if strings.HasPrefix(path, prefix) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := config.current.Load()
			if creds == nil || !creds.enabled || excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			// Constant time comparison to prevent timing attacks
			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(creds.user)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(creds.password)) == 1

			if !userMatch || !passMatch {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="monix"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

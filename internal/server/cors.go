package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"

	"ticket-api/internal/logger"
	"ticket-api/internal/utils"
)

type wildcardOrigin struct {
	scheme string
	suffix string
}

// OriginPolicy decides which browser origins may call the API. Entries are exact
// origins, "*", or "scheme://*.domain" for any subdomain of domain.
type OriginPolicy struct {
	allowAll  bool
	exact     map[string]struct{}
	wildcards []wildcardOrigin
}

func NewOriginPolicy(origins []string) *OriginPolicy {
	p := &OriginPolicy{exact: make(map[string]struct{})}
	for _, o := range origins {
		o = strings.TrimRight(strings.ToLower(strings.TrimSpace(o)), "/")
		switch {
		case o == "":
		case o == "*":
			p.allowAll = true
		case strings.Contains(o, "://*."):
			i := strings.Index(o, "://*.")
			p.wildcards = append(p.wildcards, wildcardOrigin{
				scheme: o[:i+3],
				suffix: o[i+4:],
			})
		default:
			p.exact[o] = struct{}{}
		}
	}
	return p
}

// Allowed reports whether origin is on the allow-list.
func (p *OriginPolicy) Allowed(origin string) bool {
	if p.allowAll {
		return true
	}
	origin = strings.ToLower(origin)
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, w := range p.wildcards {
		if !strings.HasPrefix(origin, w.scheme) {
			continue
		}
		host := origin[len(w.scheme):]
		if strings.HasSuffix(host, w.suffix) && len(host) > len(w.suffix) && !strings.ContainsAny(host, "/@") {
			return true
		}
	}
	return false
}

// CORS rejects requests from origins outside the policy and decorates the rest
// with CORS headers. Requests without an Origin header pass untouched.
func CORS(policy *OriginPolicy, log *logger.Logger) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return policy.Allowed(origin)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})

	return func(next http.Handler) http.Handler {
		withHeaders := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !policy.Allowed(origin) {
				log.LogSecurity("CORS", "rejected origin "+origin)
				utils.WriteError(w, http.StatusForbidden, "Not allowed by CORS")
				return
			}
			withHeaders.ServeHTTP(w, r)
		})
	}
}

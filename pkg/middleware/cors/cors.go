package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowHeaders  = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	exposeHeaders = "Content-Disposition, X-Request-ID"
)

// policy holds the configured origins. Entries such as
// "https://*.isiportal.sn" match any subdomain of the given host.
type policy struct {
	exact    map[string]struct{}
	suffixes []wildcard
}

type wildcard struct {
	scheme string
	suffix string
}

func newPolicy(origins []string) policy {
	p := policy{exact: make(map[string]struct{}, len(origins))}
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if scheme, host, ok := strings.Cut(origin, "://*."); ok {
			p.suffixes = append(p.suffixes, wildcard{scheme: scheme + "://", suffix: "." + host})
			continue
		}
		p.exact[origin] = struct{}{}
	}
	return p
}

func (p policy) allowAll() bool {
	return len(p.exact) == 0 && len(p.suffixes) == 0
}

func (p policy) allows(origin string) bool {
	if p.allowAll() {
		return true
	}
	origin = strings.TrimRight(origin, "/")
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, w := range p.suffixes {
		if strings.HasPrefix(origin, w.scheme) && strings.HasSuffix(origin, w.suffix) &&
			len(origin) > len(w.scheme)+len(w.suffix) {
			return true
		}
	}
	return false
}

// New returns a CORS middleware for the portal front-ends. An empty list
// allows every origin. Content-Disposition is exposed so browsers can name
// downloaded bulletins and ranking sheets.
func New(allowedOrigins []string) gin.HandlerFunc {
	p := newPolicy(allowedOrigins)

	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Add("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case origin != "" && p.allows(origin):
			header.Set("Access-Control-Allow-Origin", origin)
			header.Set("Access-Control-Allow-Credentials", "true")
		case origin == "" && p.allowAll():
			header.Set("Access-Control-Allow-Origin", "*")
		}
		header.Set("Access-Control-Allow-Headers", allowHeaders)
		header.Set("Access-Control-Allow-Methods", allowMethods)
		header.Set("Access-Control-Expose-Headers", exposeHeaders)
		header.Set("Access-Control-Max-Age", "600")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

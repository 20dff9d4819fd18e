package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the key for /internal routes
const APIKeyHeader = "X-Internal-API-Key"

// InternalAuth guards operator routes. Each entry of keys may hold several
// comma-separated keys so an old key keeps working while a new one rolls out.
// The key is read from APIKeyHeader, or from an "Authorization: Bearer" header
// for scrapers that cannot set custom headers. With no key configured every
// request is refused.
func InternalAuth(keys ...string) gin.HandlerFunc {
	accepted := splitKeys(keys)
	if len(accepted) == 0 {
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "server misconfigured: INTERNAL_API_KEY not set",
			})
		}
	}

	return func(c *gin.Context) {
		if !matchesAny(presentedKey(c.Request), accepted) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}

func splitKeys(keys []string) [][]byte {
	var out [][]byte
	for _, entry := range keys {
		for _, k := range strings.Split(entry, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, []byte(k))
			}
		}
	}
	return out
}

func presentedKey(r *http.Request) []byte {
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return []byte(key)
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return []byte(strings.TrimSpace(token))
	}
	return nil
}

// matchesAny compares against every key so timing does not reveal which one matched
func matchesAny(presented []byte, accepted [][]byte) bool {
	if len(presented) == 0 {
		return false
	}
	match := 0
	for _, k := range accepted {
		match |= subtle.ConstantTimeCompare(presented, k)
	}
	return match == 1
}

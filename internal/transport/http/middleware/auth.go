package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	errUnauthorized = "Unauthorized"

	// SubjectKey is the gin context key holding the caller's "sub" claim.
	SubjectKey = "subject"
)

// Auth requires an HS256 Bearer JWT signed with key and carrying exp and sub.
func Auth(key []byte) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (any, error) { return key, nil }

	return func(c *gin.Context) {
		rawToken, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || rawToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		var claims jwt.RegisteredClaims
		if _, err := parser.ParseWithClaims(rawToken, &claims, keyFunc); err != nil || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(SubjectKey, claims.Subject)
		c.Next()
	}
}

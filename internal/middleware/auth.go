package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
)

const subjectContextKey = "subject"

// Auth returns a gin middleware that rejects requests without a valid HS256
// bearer token signed with secret. The token subject is stored under
// "subject" in gin.Context.
func Auth(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims := &jwt.RegisteredClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(subjectContextKey, claims.Subject)
		c.Next()
	}
}

// GetSubject returns the authenticated subject, or "" outside Auth.
func GetSubject(c *gin.Context) string {
	return c.GetString(subjectContextKey)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, pkg.ErrorResponse{
		Code:    domain.CodeUnauthorized,
		Message: domain.ErrUnauthorized.Message,
	})
}

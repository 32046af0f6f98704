package stubserver

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/posadmin/internal/config"
	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/pkg"
)

type authHandler struct {
	secret []byte
	expiry time.Duration
	users  map[string]string
	now    func() time.Time
}

func newAuthHandler(cfg config.StubAuthConfig, now func() time.Time) *authHandler {
	users := make(map[string]string, len(cfg.Users))
	for _, u := range cfg.Users {
		users[u.Username] = u.PasswordHash
	}
	return &authHandler{
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.TokenExpiryDuration(),
		users:  users,
		now:    now,
	}
}

// login handles POST api/auth/login and answers with an HS256 token.
func (h *authHandler) login(c *gin.Context) {
	var req domain.LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	// Unknown users and wrong passwords answer alike.
	hash, ok := h.users[req.Username]
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	resp, err := h.issue(req.Username)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, resp)
}

func (h *authHandler) issue(subject string) (*domain.TokenResponse, error) {
	now := h.now()
	expires := now.Add(h.expiry)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeServer, "failed to sign token", err)
	}
	return &domain.TokenResponse{Token: token, ExpiresAt: expires.Unix()}, nil
}

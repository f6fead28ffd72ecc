package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims is the token payload issued by the user service.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RevocationChecker reports whether a session issued at issuedAt was ended
// on the server side.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

var (
	errNoToken      = errors.New("authorization token is not provided")
	errTokenFormat  = errors.New("authorization token format is invalid, expected 'Bearer <token>'")
	errTokenExpired = errors.New("token has expired")
	errTokenRevoked = errors.New("session was ended, sign in again")
	errTokenInvalid = errors.New("token is invalid")
)

type Authenticator struct {
	secret  []byte
	revoked RevocationChecker
	logger  *logger.Logger
}

func NewAuthenticator(secret string, revoked RevocationChecker, log *logger.Logger) *Authenticator {
	return &Authenticator{
		secret:  []byte(secret),
		revoked: revoked,
		logger:  log.Named("auth"),
	}
}

// Optional attaches the viewer when a valid token is present and lets every
// request through.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.authenticate(r)
		if err != nil {
			if !errors.Is(err, errNoToken) {
				a.logger.Debug("ignoring bad token on public route", zap.String("path", r.URL.Path), zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withViewer(r.Context(), claims.UserID, claims.Role)))
	})
}

// Required rejects requests without a valid, unrevoked token. Expired and
// revoked sessions are answered with reauth set.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.authenticate(r)
		if err != nil {
			a.logger.Warn("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
			reauth := errors.Is(err, errTokenExpired) || errors.Is(err, errTokenRevoked)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]any{"error": err.Error(), "reauth": reauth})
			return
		}
		next.ServeHTTP(w, r.WithContext(withViewer(r.Context(), claims.UserID, claims.Role)))
	})
}

func (a *Authenticator) authenticate(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errNoToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errTokenFormat
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errTokenInvalid
		}
		return a.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errTokenExpired
		}
		return nil, errTokenInvalid
	}
	if !token.Valid {
		return nil, errTokenInvalid
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errTokenInvalid
	}

	// Tokens without iat cannot be ordered against a sign-out; they live
	// until exp.
	if a.revoked != nil && claims.IssuedAt != nil {
		revoked, err := a.revoked.IsRevoked(r.Context(), claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			a.logger.Warn("revocation check failed, accepting token", zap.String("user_id", claims.UserID), zap.Error(err))
		} else if revoked {
			return nil, errTokenRevoked
		}
	}
	return claims, nil
}

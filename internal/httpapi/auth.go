package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDHeader carries the player id when no JWT secret is configured.
const UserIDHeader = "X-User-ID"

var errMissingSubject = errors.New("token has no subject")

// authenticate resolves the player id for the request. With a secret it
// requires an HS256 bearer token and uses its sub claim; without one it
// trusts UserIDHeader.
func authenticate(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			var userID string
			if len(key) == 0 {
				userID = strings.TrimSpace(r.Header.Get(UserIDHeader))
				if userID == "" {
					writeJSON(w, http.StatusUnauthorized, errorResponse{Error: UserIDHeader + " header is required"})
					return
				}
			} else {
				token, ok := bearerToken(r)
				if !ok {
					writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "bearer token is required"})
					return
				}
				subject, err := validateToken(token, key)
				if err != nil {
					writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
					return
				}
				userID = subject
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func validateToken(tokenString string, key []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errMissingSubject
	}
	return subject, nil
}

func userIDFrom(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

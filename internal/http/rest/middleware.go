package rest

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bwise1/phishblock/util/tracing"
	"github.com/bwise1/phishblock/util/values"
	"github.com/golang-jwt/jwt"
	"github.com/lucsky/cuid"
)

// RequestTracing handles the request tracing context
func RequestTracing(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		requestSource := r.Header.Get(values.HeaderRequestSource)
		if requestSource == "" {
			requestSource = "web"
		}

		requestID := r.Header.Get(values.HeaderRequestID)
		if requestID == "" {
			requestID = cuid.New()
		}

		tracingContext := tracing.Context{
			RequestID:     requestID,
			RequestSource: requestSource,
		}

		ctx = context.WithValue(ctx, values.ContextTracingKey, tracingContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequireWallet verifies a wallet session token and injects the wallet
// address into the request context. Mounted on write routes when
// AUTH_REQUIRED is set.
func (api *API) RequireWallet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.Split(r.Header.Get("Authorization"), " ")
		if len(authorization) != 2 || authorization[0] != "Bearer" {
			writeErrorResponse(w, nil, values.NotAuthorised, "not-authorized")
			return
		}

		address, err := api.verifyWalletToken(authorization[1])
		if err != nil {
			if err.Error() == "token expired" {
				writeErrorResponse(w, err, values.TokenExpired, "token-expired")
				return
			}
			writeErrorResponse(w, err, values.NotAuthorised, "invalid-token")
			return
		}

		ctx := context.WithValue(r.Context(), "wallet_address", address)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (api *API) verifyWalletToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.Println("unexpected signing method")
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(api.Config.JwtSecret), nil
	})

	if ve, ok := err.(*jwt.ValidationError); ok {
		if ve.Errors&jwt.ValidationErrorExpired != 0 {
			log.Println("token expired")
			return "", fmt.Errorf("token expired")
		}
	}

	if err != nil || !token.Valid {
		log.Println("error verifying token", err)
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	address, ok := claims["wallet_address"].(string)
	if !ok || address == "" {
		return "", fmt.Errorf("wallet address missing from token")
	}

	return address, nil
}

// IssueWalletToken signs a session token binding the caller to a wallet
// address.
func IssueWalletToken(secret, address string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"wallet_address": address,
		"exp":            time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
)

// TokenTTL is how long an issued access token stays valid
const TokenTTL = 24 * time.Hour

const tokenIssuer = "pet-health-api"

// UserFinder is the part of the user database the auth layer needs
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Auth authenticates requests with basic credentials or a signed bearer token
type Auth struct {
	Users         UserFinder
	secret        []byte
	now           func() time.Time
	authenticator auth.Authenticator
}

// NewAuth sets up go-guardian with a basic strategy checking bcrypt hashes
// and a bearer strategy checking tokens signed with secret
func NewAuth(users UserFinder, secret string) *Auth {
	a := &Auth{
		Users:  users,
		secret: []byte(secret),
		now:    time.Now,
	}
	a.authenticator = auth.New()
	basicCache := store.NewFIFO(context.Background(), 10*time.Minute)
	tokenCache := store.NewFIFO(context.Background(), 10*time.Minute)
	a.authenticator.EnableStrategy(basic.StrategyKey, basic.New(a.ValidateUser, basicCache))
	a.authenticator.EnableStrategy(bearer.CachedStrategyKey, bearer.New(a.ValidateToken, tokenCache))
	return a
}

// Middleware rejects unauthenticated requests and stores the user id in the
// request context
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := a.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Warnw("unauthorized",
				"url", r.URL.String(),
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugw("user authenticated", "userId", user.ID())
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), user.ID())))
	})
}

// CreateToken issues a bearer token to a user that passed basic auth
func (a *Auth) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	userID, ok := UserIDFromContext(r.Context())
	email, _, _ := r.BasicAuth()
	if !ok || email == "" {
		http.Error(w, "basic auth failed", http.StatusUnauthorized)
		return
	}

	token, expiresAt, err := a.signToken(userID, email)
	if err != nil {
		zap.S().Errorw("failed to sign token", "userId", userID, "error", err)
		http.Error(w, "failed to create token", http.StatusInternalServerError)
		return
	}

	responseBody, err := json.Marshal(map[string]string{
		"token":     token,
		"_id":       userID,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Write(responseBody)
}

func (a *Auth) signToken(userID, email string) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(TokenTTL)
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	return signed, expiresAt, err
}

// ValidateUser checks an email and password against the stored bcrypt hash
func (a *Auth) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	user, err := a.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return auth.NewDefaultUser(user.Email, user.ID.Hex(), nil, nil), nil
}

// ValidateToken verifies the signature, issuer and expiry of a bearer token
func (a *Auth) ValidateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("invalid token: missing subject")
	}
	return auth.NewDefaultUser(claims.Email, claims.Subject, nil, nil), nil
}

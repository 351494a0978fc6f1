package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/config"
	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
)

const minPasswordLength = 8

// User exported for testing purposes
type User struct {
	DB databases.UserDatabase
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserCreateHandler registers a new account with a bcrypt hashed password
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		config.ErrorStatus("invalid email", http.StatusBadRequest, w, fmt.Errorf("email %q is not valid", req.Email))
		return
	}
	if len(req.Password) < minPasswordLength {
		config.ErrorStatus("invalid password", http.StatusBadRequest, w, fmt.Errorf("password must have at least %d characters", minPasswordLength))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: string(hash),
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err = u.DB.InsertOne(ctx, &user); err != nil {
		if errors.Is(err, databases.ErrEmailTaken) {
			config.ErrorStatus("failed to create user", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("failed to create user", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("user registered", "userId", user.ID.Hex())
	writeJSON(w, http.StatusCreated, user)
}

// CurrentUserHandler returns the authenticated user
func (u User) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := u.DB.FindByID(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to get user by ID", lookupStatus(err), w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

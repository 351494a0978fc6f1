package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/config"
	"github.com/linesmerrill/pet-health-api/databases"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var errNoUser = errors.New("no authenticated user in request context")

// userIDOrUnauthorized returns the id stored by the auth middleware or writes
// a 401
func userIDOrUnauthorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := api.UserIDFromContext(r.Context())
	if !ok {
		config.ErrorStatus("failed to get user from context", http.StatusUnauthorized, w, errNoUser)
		return "", false
	}
	return userID, true
}

// lookupStatus maps a store error to 404 for missing or foreign records and
// 500 for everything else
func lookupStatus(err error) int {
	if errors.Is(err, databases.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}

// pageParams reads the 1-based page and the limit from the query string
func pageParams(r *http.Request) (int64, int64) {
	page, err := getInt64Param(r, "page", defaultPage)
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err := getInt64Param(r, "limit", defaultLimit)
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// cloneTime detaches an optional date so decoding a request body into a copy
// of a record cannot write through to the original
func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// getInt64Param returns fallback when key is absent and an error when it is
// not an integer
func getInt64Param(r *http.Request, key string, fallback int64) (int64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func getBoolParam(r *http.Request, key string) (*bool, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

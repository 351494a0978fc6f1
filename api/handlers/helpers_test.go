package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/pet-health-api/api"
	mocksdb "github.com/linesmerrill/pet-health-api/databases/mocks"
	"github.com/linesmerrill/pet-health-api/reminders"
)

const testUserID = "5fc51f58c72ff10004dca382"

type stores struct {
	reminders   *mocksdb.ReminderDatabase
	treatments  *mocksdb.TreatmentDatabase
	medications *mocksdb.MedicationDatabase
	vaccines    *mocksdb.VaccineDatabase
	pets        *mocksdb.PetDatabase
}

func newStores() stores {
	return stores{
		reminders:   &mocksdb.ReminderDatabase{},
		treatments:  &mocksdb.TreatmentDatabase{},
		medications: &mocksdb.MedicationDatabase{},
		vaccines:    &mocksdb.VaccineDatabase{},
		pets:        &mocksdb.PetDatabase{},
	}
}

func (s stores) manager() *reminders.Manager {
	return reminders.NewManager(s.reminders, s.treatments, s.medications, s.vaccines)
}

// authedRequest builds a request as the auth middleware would hand it over
func authedRequest(t *testing.T, method, url string, body interface{}, vars map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req.WithContext(api.WithUserID(req.Context(), testUserID))
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/pet-health-api/api"
	"github.com/linesmerrill/pet-health-api/api/scheduler"
	"github.com/linesmerrill/pet-health-api/config"
	"github.com/linesmerrill/pet-health-api/databases"
	"github.com/linesmerrill/pet-health-api/models"
	"github.com/linesmerrill/pet-health-api/notifications"
	"github.com/linesmerrill/pet-health-api/reminders"
)

const connectTimeout = 10 * time.Second

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	Metrics   *api.Metrics
	client    databases.ClientHelper
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	udb := databases.NewUserDatabase(a.dbHelper)
	pdb := databases.NewPetDatabase(a.dbHelper)
	tdb := databases.NewTreatmentDatabase(a.dbHelper)
	mdb := databases.NewMedicationDatabase(a.dbHelper)
	vdb := databases.NewVaccineDatabase(a.dbHelper)
	rdb := databases.NewReminderDatabase(a.dbHelper)

	mgr := reminders.NewManager(rdb, tdb, mdb, vdb)
	if a.Scheduler == nil {
		a.Scheduler = scheduler.NewScheduler(
			a.Config.ScanSchedule,
			a.Config.InstanceID,
			rdb,
			databases.NewSchedulerLockDatabase(a.dbHelper),
			a.notifier(udb),
		)
	}
	if a.Metrics == nil {
		a.Metrics = api.NewMetrics()
	}

	m := api.NewAuth(udb, a.Config.JWTSecret)

	u := User{DB: udb}
	p := Pet{DB: pdb, Uploader: a.imageUploader()}
	t := Treatment{DB: tdb, MDB: mdb, PetDB: pdb, Manager: mgr}
	med := Medication{DB: mdb, TDB: tdb, Manager: mgr}
	v := Vaccine{DB: vdb, PetDB: pdb, Manager: mgr}
	rem := Reminder{DB: rdb, PetDB: pdb, Due: a.Scheduler}
	metrics := MetricsHandler{Metrics: a.Metrics}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware(a.Metrics))
	r.Use(api.TimeoutMiddleware(api.RequestTimeout))

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", m.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/metrics", m.Middleware(http.HandlerFunc(metrics.GetMetricsSummary))).Methods("GET")

	apiCreate.Handle("/users", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/users/me", m.Middleware(http.HandlerFunc(u.CurrentUserHandler))).Methods("GET")

	apiCreate.Handle("/pets", m.Middleware(http.HandlerFunc(p.PetsHandler))).Methods("GET")
	apiCreate.Handle("/pets", m.Middleware(http.HandlerFunc(p.CreatePetHandler))).Methods("POST")
	apiCreate.Handle("/pets/{pet_id}", m.Middleware(http.HandlerFunc(p.PetByIDHandler))).Methods("GET")
	apiCreate.Handle("/pets/{pet_id}", m.Middleware(http.HandlerFunc(p.UpdatePetHandler))).Methods("PUT")
	apiCreate.Handle("/pets/{pet_id}", m.Middleware(http.HandlerFunc(p.DeletePetHandler))).Methods("DELETE")
	apiCreate.Handle("/pets/{pet_id}/image", m.Middleware(http.HandlerFunc(p.UploadPetImageHandler))).Methods("POST")
	apiCreate.Handle("/pets/{pet_id}/treatments", m.Middleware(http.HandlerFunc(t.TreatmentsByPetIDHandler))).Methods("GET")
	apiCreate.Handle("/pets/{pet_id}/vaccines", m.Middleware(http.HandlerFunc(v.VaccinesByPetIDHandler))).Methods("GET")
	apiCreate.Handle("/pets/{pet_id}/reminders", m.Middleware(http.HandlerFunc(rem.PetRemindersHandler))).Methods("GET")

	apiCreate.Handle("/treatments", m.Middleware(http.HandlerFunc(t.CreateTreatmentHandler))).Methods("POST")
	apiCreate.Handle("/treatments/{treatment_id}", m.Middleware(http.HandlerFunc(t.TreatmentByIDHandler))).Methods("GET")
	apiCreate.Handle("/treatments/{treatment_id}", m.Middleware(http.HandlerFunc(t.UpdateTreatmentHandler))).Methods("PUT")
	apiCreate.Handle("/treatments/{treatment_id}", m.Middleware(http.HandlerFunc(t.DeleteTreatmentHandler))).Methods("DELETE")
	apiCreate.Handle("/treatments/{treatment_id}/medications", m.Middleware(http.HandlerFunc(med.CreateMedicationHandler))).Methods("POST")

	apiCreate.Handle("/medications/{medication_id}", m.Middleware(http.HandlerFunc(med.UpdateMedicationHandler))).Methods("PUT")
	apiCreate.Handle("/medications/{medication_id}", m.Middleware(http.HandlerFunc(med.DeleteMedicationHandler))).Methods("DELETE")

	apiCreate.Handle("/vaccines", m.Middleware(http.HandlerFunc(v.CreateVaccineHandler))).Methods("POST")
	apiCreate.Handle("/vaccines/{vaccine_id}", m.Middleware(http.HandlerFunc(v.UpdateVaccineHandler))).Methods("PUT")
	apiCreate.Handle("/vaccines/{vaccine_id}", m.Middleware(http.HandlerFunc(v.DeleteVaccineHandler))).Methods("DELETE")

	// static reminder paths must stay above /reminders/{reminder_id}
	apiCreate.Handle("/reminders", m.Middleware(http.HandlerFunc(rem.RemindersHandler))).Methods("GET")
	apiCreate.Handle("/reminders", m.Middleware(http.HandlerFunc(rem.CreateReminderHandler))).Methods("POST")
	apiCreate.Handle("/reminders/unread", m.Middleware(http.HandlerFunc(rem.UnreadRemindersHandler))).Methods("GET")
	apiCreate.Handle("/reminders/due", m.Middleware(http.HandlerFunc(rem.DueRemindersHandler))).Methods("GET")
	apiCreate.Handle("/reminders/{reminder_id}", m.Middleware(http.HandlerFunc(rem.ReminderByIDHandler))).Methods("GET")
	apiCreate.Handle("/reminders/{reminder_id}", m.Middleware(http.HandlerFunc(rem.UpdateReminderHandler))).Methods("PUT")
	apiCreate.Handle("/reminders/{reminder_id}", m.Middleware(http.HandlerFunc(rem.DeleteReminderHandler))).Methods("DELETE")
	apiCreate.Handle("/reminders/{reminder_id}/complete", m.Middleware(http.HandlerFunc(rem.CompleteReminderHandler))).Methods("PUT")
	apiCreate.Handle("/reminders/{reminder_id}/incomplete", m.Middleware(http.HandlerFunc(rem.IncompleteReminderHandler))).Methods("PUT")
	apiCreate.Handle("/reminders/{reminder_id}/viewed", m.Middleware(http.HandlerFunc(rem.ViewedReminderHandler))).Methods("PUT")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err = client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	a.client = client
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("pet-health-api has connected to the database")

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close disconnects from the database
func (a *App) Close(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	return a.client.Disconnect(ctx)
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// notifier picks sendgrid email delivery when an API key is configured and
// falls back to logging due reminders
func (a *App) notifier(users databases.UserDatabase) notifications.Notifier {
	if a.Config.SendgridAPIKey == "" {
		zap.S().Warn("SENDGRID_API_KEY is not set, due reminders will only be logged")
		return notifications.LogNotifier{}
	}
	return notifications.Multi{
		notifications.LogNotifier{},
		notifications.NewEmailNotifier(a.Config.SendgridAPIKey, a.Config.EmailFrom, users),
	}
}

func (a *App) imageUploader() ImageUploader {
	if a.Config.CloudinaryURL == "" {
		return nil
	}
	uploader, err := NewCloudinaryUploader(a.Config.CloudinaryURL)
	if err != nil {
		zap.S().Errorw("image uploads disabled", "error", err)
		return nil
	}
	return uploader
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

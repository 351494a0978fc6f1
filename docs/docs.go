// Package docs Pet Health API.
//
// Documentation of Pet Health API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://pet-health-api.herokuapp.com
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//     - bearer
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/pet-health-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/reminders reminders listReminders
// Lists the reminders of the authenticated user ordered by due date.
// responses:
//   200: reminderListResponse
//   400: errorResponse
//   401: errorResponse

// A page of reminders with pagination details
// swagger:response reminderListResponse
type reminderListResponseWrapper struct {
	// in:body
	Body models.ReminderResponse
}

// swagger:route GET /api/v1/reminders/due reminders dueReminders
// Lists the incomplete reminders due within lookahead_minutes (default 5).
// responses:
//   200: dueRemindersResponse

// The reminders that are about to be due
// swagger:response dueRemindersResponse
type dueRemindersResponseWrapper struct {
	// in:body
	Body []models.Reminder
}

// swagger:route POST /api/v1/treatments treatments createTreatment
// Creates a treatment with its medications and schedules their reminders.
// responses:
//   201: treatmentResponse
//   400: errorResponse
//   404: errorResponse

// A single treatment with its medications
// swagger:response treatmentResponse
type treatmentResponseWrapper struct {
	// in:body
	Body models.Treatment
}

// swagger:route POST /api/v1/vaccines vaccines createVaccine
// Records a vaccination and schedules its booster reminder.
// responses:
//   201: vaccineResponse
//   400: errorResponse
//   404: errorResponse

// A single vaccine record
// swagger:response vaccineResponse
type vaccineResponseWrapper struct {
	// in:body
	Body models.VaccineRecord
}

// The message and cause of a failed request
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}

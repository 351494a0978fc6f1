package notifications

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/linesmerrill/pet-health-api/models"
	templates "github.com/linesmerrill/pet-health-api/templates/html"
)

const fromName = "Pet Health"

// Sender is the part of the sendgrid client used to deliver mail
type Sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// UserLookup resolves the owner of a reminder
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// EmailNotifier emails each due reminder to its owner through sendgrid
type EmailNotifier struct {
	Sender Sender
	Users  UserLookup
	From   string
}

// NewEmailNotifier creates an EmailNotifier backed by the sendgrid API
func NewEmailNotifier(apiKey, from string, users UserLookup) *EmailNotifier {
	return &EmailNotifier{
		Sender: sendgrid.NewSendClient(apiKey),
		Users:  users,
		From:   from,
	}
}

// Notify looks up the owner and sends one email. Sendgrid answering with an
// error status counts as a failure.
func (e *EmailNotifier) Notify(ctx context.Context, r models.Reminder) error {
	user, err := e.Users.FindByID(ctx, r.UserID)
	if err != nil {
		return fmt.Errorf("failed to find owner %s of reminder %s: %w", r.UserID, r.ID.Hex(), err)
	}
	if user.Email == "" {
		return fmt.Errorf("owner %s of reminder %s has no email", r.UserID, r.ID.Hex())
	}

	subject := fmt.Sprintf("Reminder: %s", r.Title)
	htmlContent := templates.RenderReminderEmail(templates.ReminderEmailData{
		OwnerName:   user.Name,
		Title:       r.Title,
		Description: r.Description,
		DueAt:       r.ReminderDate,
		Priority:    string(r.Priority),
	})
	plainText := fmt.Sprintf("%s\n%s\nDue: %s", r.Title, r.Description, r.ReminderDate.Format("2006-01-02 15:04 MST"))

	from := mail.NewEmail(fromName, e.From)
	to := mail.NewEmail(user.Name, user.Email)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	response, err := e.Sender.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send reminder %s: %w", r.ID.Hex(), err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d for reminder %s: %s", response.StatusCode, r.ID.Hex(), response.Body)
	}
	return nil
}

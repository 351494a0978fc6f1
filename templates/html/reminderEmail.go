package templates

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// ReminderEmailData holds the values shown in a due reminder email
type ReminderEmailData struct {
	OwnerName   string
	Title       string
	Description string
	DueAt       time.Time
	Priority    string
}

// RenderReminderEmail generates the HTML body of a due reminder email.
// Every user supplied value is HTML-escaped and newlines in the description
// become <br> tags.
func RenderReminderEmail(d ReminderEmailData) string {
	name := html.EscapeString(d.OwnerName)
	if name == "" {
		name = "there"
	}
	title := html.EscapeString(d.Title)
	body := strings.ReplaceAll(html.EscapeString(d.Description), "\n", "<br>")
	due := d.DueAt.Format("Mon, 02 Jan 2006 15:04 MST")

	return fmt.Sprintf(`<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">
<html xmlns="http://www.w3.org/1999/xhtml">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1, minimum-scale=1, maximum-scale=1">
  <title>%s</title>
  <style type="text/css">
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 0; background-color: #f4f7f6; }
    .container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
    .header { background: linear-gradient(135deg, #34d399 0%%, #059669 100%%); padding: 32px 30px; text-align: center; }
    .header h1 { color: #fff; margin: 0; font-size: 22px; font-weight: 700; }
    .content { padding: 32px 30px; color: #1f2937; font-size: 15px; line-height: 1.6; }
    .due { background: #ecfdf5; border: 1px solid #a7f3d0; border-radius: 10px; padding: 16px 20px; margin: 20px 0; }
    .priority { display: inline-block; font-size: 12px; font-weight: 700; color: #065f46; }
    .footer { padding: 24px; text-align: center; color: #6b7280; font-size: 12px; border-top: 1px solid #e5e7eb; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s</h1>
    </div>
    <div class="content">
      <p>Hi %s,</p>
      <p>%s</p>
      <div class="due">
        <strong>Due:</strong> %s<br>
        <span class="priority">%s priority</span>
      </div>
    </div>
    <div class="footer">
      You are receiving this because reminders are enabled for your pets.
    </div>
  </div>
</body>
</html>`, title, title, name, body, due, html.EscapeString(d.Priority))
}

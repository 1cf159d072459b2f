package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// HTML is optional; Text is recommended as fallback. A Template name with
// Data can be used instead of raw subject/body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome"
	Data     map[string]any `json:"data,omitempty"`
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`
<html>
<body>
  <h2>Welcome, {{.Username}}!</h2>
  <p>Your account is ready. Log in and start building your pokemon collection.</p>
</body>
</html>
`))

// Render resolves a named template into subject, text and html bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "welcome":
		var buf bytes.Buffer
		if err := welcomeTmpl.Execute(&buf, data); err != nil {
			return "", "", "", err
		}
		username, _ := data["Username"].(string)
		subject = "Welcome aboard"
		text = fmt.Sprintf("Welcome, %s! Your account is ready.", username)
		return subject, text, buf.String(), nil
	default:
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
}

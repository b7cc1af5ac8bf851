package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"opevents/internal/domain/event"
	"opevents/internal/ports"
)

// Mailer sends event notifications through the provider's mail-send
// endpoint on behalf of the configured sender address.
type Mailer struct {
	client *Client
}

var _ ports.Mailer = (*Mailer)(nil)

func NewMailer(client *Client) *Mailer {
	return &Mailer{client: client}
}

// Accent colors per impact type, mirrored in the dashboard charts.
var impactColors = map[string]string{
	"Paro de Ensamble":   "#D13438",
	"Retrabajo":          "#FF8C00",
	"Mejora del Proceso": "#0078D4",
	"Falta de Material":  "#8764B8",
}

const defaultImpactColor = "#0078D4"

type sendMailPayload struct {
	Message         mailMessage `json:"message"`
	SaveToSentItems string      `json:"saveToSentItems"`
}

type mailMessage struct {
	Subject      string          `json:"subject"`
	Body         mailBody        `json:"body"`
	ToRecipients []mailRecipient `json:"toRecipients"`
}

type mailBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type mailRecipient struct {
	EmailAddress mailAddress `json:"emailAddress"`
}

type mailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Notify builds the HTML notification for a captured event and submits
// it with the application-level token. It reports failure when the
// sender is unconfigured, no token can be acquired, or the endpoint
// does not accept the message; nothing is retried or queued.
func (m *Mailer) Notify(ctx context.Context, e event.Event, recipient ports.MailRecipient) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}

	sender := m.client.cfg.Mail.Sender
	if sender == "" {
		return "", &ports.ConfigError{Setting: "mail.sender"}
	}
	if recipient.Email == "" {
		return "", errors.New("recipient email is required")
	}

	token, err := m.client.AppToken(ctx)
	if err != nil {
		return "", err
	}

	body, err := buildNotificationHTML(e, m.client.cfg.App.Name, m.client.cfg.App.URL)
	if err != nil {
		return "", fmt.Errorf("render mail body: %w", err)
	}

	name := recipient.Name
	if name == "" {
		name = recipient.Email
	}
	payload, err := json.Marshal(sendMailPayload{
		Message: mailMessage{
			Subject: fmt.Sprintf("[%s] %s — Proyecto %s", m.client.cfg.App.Name, e.Category, e.ProjectNumber),
			Body:    mailBody{ContentType: "HTML", Content: body},
			ToRecipients: []mailRecipient{
				{EmailAddress: mailAddress{Address: recipient.Email, Name: name}},
			},
		},
		SaveToSentItems: "false",
	})
	if err != nil {
		return "", fmt.Errorf("encode mail payload: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/sendMail", m.client.baseURL(), sender)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// The mail endpoint reports acceptance with 202 and an empty body.
	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		return "", remoteError(resp.StatusCode, raw)
	}

	return fmt.Sprintf("Email enviado a %s", recipient.Email), nil
}

type notificationData struct {
	AppName     string
	AppURL      string
	AccentColor string
	Category    string
	Cause       string
	Project     string
	Part        string
	Reporter    string
	Assignee    string
	Detected    string
	Comments    string
}

func buildNotificationHTML(e event.Event, appName, appURL string) (string, error) {
	color, ok := impactColors[e.Category]
	if !ok {
		color = defaultImpactColor
	}

	detected := "N/A"
	if !e.DetectedAt.IsZero() {
		detected = e.DetectedAt.Format("02/01/2006 15:04")
	}
	comments := e.Comments
	if comments == "" {
		comments = "—"
	}
	if appURL == "" {
		appURL = "http://localhost:3001"
	}

	var buf bytes.Buffer
	err := notificationTemplate.Execute(&buf, notificationData{
		AppName:     appName,
		AppURL:      appURL,
		AccentColor: color,
		Category:    e.Category,
		Cause:       e.Cause,
		Project:     e.ProjectNumber,
		Part:        e.PartNumber,
		Reporter:    e.Reporter,
		Assignee:    e.Assignee,
		Detected:    detected,
		Comments:    comments,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

var notificationTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0; padding:0; font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif; background:#f5f5f5;">
<table width="100%" cellpadding="0" cellspacing="0" style="background:#f5f5f5; padding:20px 0;">
<tr><td align="center">
<table width="600" cellpadding="0" cellspacing="0" style="background:#ffffff; border-radius:8px; overflow:hidden; box-shadow:0 2px 8px rgba(0,0,0,0.1);">
<tr><td style="background:{{.AccentColor}}; padding:24px 32px;">
<h1 style="color:#ffffff; margin:0; font-size:20px; font-weight:600;">Nuevo Evento Operativo</h1>
<p style="color:rgba(255,255,255,0.85); margin:6px 0 0; font-size:14px;">Se te ha asignado como responsable de un evento</p>
</td></tr>
<tr><td style="padding:24px 32px 0;">
<table cellpadding="0" cellspacing="0"><tr>
<td style="background:{{.AccentColor}}; color:#fff; padding:6px 16px; border-radius:4px; font-size:13px; font-weight:600;">{{.Category}}</td>
</tr></table>
</td></tr>
<tr><td style="padding:20px 32px;">
<table width="100%" cellpadding="0" cellspacing="0" style="border:1px solid #e0e0e0; border-radius:6px; overflow:hidden;">
<tr style="background:#fafafa;">
<td style="padding:10px 16px; font-size:13px; color:#666; width:40%; border-bottom:1px solid #e0e0e0;">Causa</td>
<td style="padding:10px 16px; font-size:13px; color:#333; border-bottom:1px solid #e0e0e0; font-weight:500;">{{.Cause}}</td>
</tr>
<tr>
<td style="padding:10px 16px; font-size:13px; color:#666; border-bottom:1px solid #e0e0e0;">No. Proyecto</td>
<td style="padding:10px 16px; font-size:13px; color:#333; border-bottom:1px solid #e0e0e0; font-weight:500;">{{.Project}}</td>
</tr>
<tr style="background:#fafafa;">
<td style="padding:10px 16px; font-size:13px; color:#666; border-bottom:1px solid #e0e0e0;">No. Parte / Plano</td>
<td style="padding:10px 16px; font-size:13px; color:#333; border-bottom:1px solid #e0e0e0; font-weight:500;">{{.Part}}</td>
</tr>
<tr>
<td style="padding:10px 16px; font-size:13px; color:#666; border-bottom:1px solid #e0e0e0;">Detectado por</td>
<td style="padding:10px 16px; font-size:13px; color:#333; border-bottom:1px solid #e0e0e0; font-weight:500;">{{.Reporter}}</td>
</tr>
<tr style="background:#fafafa;">
<td style="padding:10px 16px; font-size:13px; color:#666; border-bottom:1px solid #e0e0e0;">Responsable</td>
<td style="padding:10px 16px; font-size:13px; color:#333; border-bottom:1px solid #e0e0e0; font-weight:600;">{{.Assignee}}</td>
</tr>
<tr>
<td style="padding:10px 16px; font-size:13px; color:#666; border-bottom:1px solid #e0e0e0;">Fecha</td>
<td style="padding:10px 16px; font-size:13px; color:#333; border-bottom:1px solid #e0e0e0;">{{.Detected}}</td>
</tr>
<tr style="background:#fafafa;">
<td style="padding:10px 16px; font-size:13px; color:#666;">Comentarios</td>
<td style="padding:10px 16px; font-size:13px; color:#333;">{{.Comments}}</td>
</tr>
</table>
</td></tr>
<tr><td style="padding:8px 32px 28px;" align="center">
<a href="{{.AppURL}}" style="display:inline-block; background:{{.AccentColor}}; color:#ffffff; text-decoration:none; padding:12px 32px; border-radius:6px; font-size:14px; font-weight:600;">Abrir {{.AppName}}</a>
</td></tr>
<tr><td style="background:#fafafa; padding:16px 32px; border-top:1px solid #e0e0e0;">
<p style="margin:0; font-size:12px; color:#999; text-align:center;">Este es un mensaje automático de {{.AppName}}. No responder a este correo.</p>
</td></tr>
</table>
</td></tr>
</table>
</body>
</html>`))

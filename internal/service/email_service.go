package service

import (
	"context"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"wellnest/internal/logger"
	"wellnest/internal/models"
)

// sesSender is the part of the SES client the email service uses
type sesSender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     sesSender
	log        *logger.Logger
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service. Without a from address the
// service is disabled and every send is skipped.
func NewEmailService(ctx context.Context, log *logger.Logger, awsRegion, fromEmail, fromName, appBaseURL string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Info("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{log: log, debug: debug}, nil
	}

	if debug {
		log.Debug("initializing email service",
			"region", awsRegion,
			"from", fromEmail,
			"from_name", fromName,
			"app_base_url", appBaseURL,
		)
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Info("email service enabled", "from", fromEmail, "region", awsRegion)
	return newEmailService(sesv2.NewFromConfig(cfg), log, fromEmail, fromName, appBaseURL, debug), nil
}

func newEmailService(client sesSender, log *logger.Logger, fromEmail, fromName, appBaseURL string, debug bool) *EmailService {
	return &EmailService{
		client:     client,
		log:        log,
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		enabled:    true,
		debug:      debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// emailItem is one bullet in an email. Label is rendered bold when set.
type emailItem struct {
	Label  string
	Detail string
}

// emailContent fills the shared layout used by every Wellnest email
type emailContent struct {
	Title      string
	Name       string
	Paragraphs []string
	Items      []emailItem
	LinkURL    string
	LinkText   string
}

const emailFooter = "This is an automated email from Wellnest. Please do not reply."

var htmlLayout = htmltemplate.Must(htmltemplate.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #5b8c85; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #5b8c85; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>{{.Title}}</h1></div>
		<div class="content">
			<p>Hi {{.Name}},</p>
			{{- range .Paragraphs}}
			<p>{{.}}</p>
			{{- end}}
			<ul>
			{{- range .Items}}
				<li>{{if .Label}}<strong>{{.Label}}</strong>: {{end}}{{.Detail}}</li>
			{{- end}}
			</ul>
			<p style="text-align: center;"><a href="{{.LinkURL}}" class="button">{{.LinkText}}</a></p>
		</div>
		<div class="footer"><p>` + emailFooter + `</p></div>
	</div>
</body>
</html>
`))

var textLayout = texttemplate.Must(texttemplate.New("email").Parse(`Hi {{.Name}},
{{range .Paragraphs}}
{{.}}
{{- end}}
{{range .Items}}
- {{if .Label}}{{.Label}}: {{end}}{{.Detail}}
{{- end}}

{{.LinkText}}: {{.LinkURL}}

---
` + emailFooter + `
`))

// render produces the HTML and plain text bodies for content
func render(content emailContent) (htmlBody, textBody string, err error) {
	var h, t strings.Builder
	if err := htmlLayout.Execute(&h, content); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	if err := textLayout.Execute(&t, content); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	return h.String(), t.String(), nil
}

// SendWelcomeEmail sends a welcome email to new users
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !s.enabled {
		if s.debug {
			s.log.Debug("skipping welcome email, service disabled", "to", toEmail)
		}
		return nil
	}

	htmlBody, textBody, err := render(emailContent{
		Title: "Welcome to Wellnest!",
		Name:  toName,
		Paragraphs: []string{
			"Thanks for joining Wellnest. Small daily habits add up, and we're glad you're here.",
			"Here's what you can do next:",
		},
		Items: []emailItem{
			{Detail: "Log how you're feeling each day"},
			{Detail: "Try a breathing exercise or a quick meditation"},
			{Detail: "Build a login streak and unlock achievements"},
		},
		LinkURL:  s.appBaseURL + "/login",
		LinkText: "Get started",
	})
	if err != nil {
		return err
	}

	return s.sendEmail(ctx, toEmail, "Welcome to Wellnest!", htmlBody, textBody)
}

// AchievementsUnlocked emails the user about newly unlocked achievements.
// Users without an email address are skipped.
func (s *EmailService) AchievementsUnlocked(ctx context.Context, user *models.User, achievements []models.Achievement) error {
	if !s.enabled || user.Email == "" || len(achievements) == 0 {
		return nil
	}

	subject := fmt.Sprintf("You unlocked %s!", achievements[0].Name)
	if len(achievements) > 1 {
		subject = fmt.Sprintf("You unlocked %d achievements!", len(achievements))
	}

	items := make([]emailItem, 0, len(achievements))
	for _, a := range achievements {
		items = append(items, emailItem{Label: a.Name, Detail: a.Description})
	}

	htmlBody, textBody, err := render(emailContent{
		Title:      "Achievement Unlocked",
		Name:       user.Name,
		Paragraphs: []string{"Your effort is paying off. You just unlocked:"},
		Items:      items,
		LinkURL:    s.appBaseURL + "/achievements",
		LinkText:   "See your achievements",
	})
	if err != nil {
		return err
	}

	return s.sendEmail(ctx, user.Email, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		s.log.Debug("sending email",
			"from", fromAddress,
			"to", toEmail,
			"subject", subject,
			"html_bytes", len(htmlBody),
			"text_bytes", len(textBody),
		)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		s.log.Debug("SES SendEmail succeeded", "message_id", *result.MessageId)
	}
	s.log.Info("email sent", "to", toEmail, "subject", subject)
	return nil
}

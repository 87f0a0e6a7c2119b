package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/hirewise/hirewise/pkg/model"
)

// StatusReceived is not an application status transition, it is the initial
// confirmation sent right after submission (optionally with the interview
// link).
const StatusReceived model.ApplicationStatus = "received"

type TemplateData struct {
	Status        model.ApplicationStatus
	CandidateName string
	JobTitle      string
	CompanyName   string
	InterviewLink string
	Deadline      time.Time
	Message       string
}

type statusTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #4f46e5; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
  .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
  .button { display: inline-block; padding: 12px 30px; background: #4f46e5; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
  .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
</style>
</head>
<body>
<div class="container">
  <div class="header"><h1>{{.Heading}}</h1></div>
  <div class="content">{{.Body}}</div>
  <div class="footer"><p>This is an automated message. Please do not reply to this email.</p></div>
</div>
</body>
</html>`

var layoutTmpl = template.Must(template.New("layout").Parse(layout))

var templates = map[model.ApplicationStatus]statusTemplate{
	StatusReceived: {
		subject: "Application Received - %s",
		body: template.Must(template.New("received").Parse(`
<p>Dear {{.CandidateName}},</p>
<p>Thank you for applying for the <strong>{{.JobTitle}}</strong> position at <strong>{{.CompanyName}}</strong>.</p>
<p>We have successfully received your application and our recruitment team will review it carefully.</p>
{{if .InterviewLink}}
<p><strong>Next step: complete your pre-screening interview.</strong></p>
<p>The interview takes about 10 minutes and must be completed before
<strong>{{.Deadline.Format "Jan 2, 2006 15:04 MST"}}</strong>.</p>
<p><a class="button" href="{{.InterviewLink}}">Start Interview</a></p>
<p>The link above is personal to you; please do not share it.</p>
{{else}}
<p>Our team will review your application within 3-5 business days and contact you about the next steps.</p>
{{end}}
<p>Best regards,<br><strong>{{.CompanyName}} Recruitment Team</strong></p>`)),
	},
	model.ApplicationReviewing: {
		subject: "Application Under Review - %s",
		body: template.Must(template.New("reviewing").Parse(`
<p>Dear {{.CandidateName}},</p>
<p>Great news! Your application for the <strong>{{.JobTitle}}</strong> position is now being reviewed by our hiring team.</p>
<p>We'll keep you updated on the progress of your application.</p>
<p>Best regards,<br><strong>{{.CompanyName}} Recruitment Team</strong></p>`)),
	},
	model.ApplicationShortlisted: {
		subject: "You've Been Shortlisted - %s",
		body: template.Must(template.New("shortlisted").Parse(`
<p>Dear {{.CandidateName}},</p>
<p>Congratulations! You have been shortlisted for the <strong>{{.JobTitle}}</strong> position at <strong>{{.CompanyName}}</strong>.</p>
<p>Our team will reach out shortly with details about the next stage.</p>
<p>Best regards,<br><strong>{{.CompanyName}} Recruitment Team</strong></p>`)),
	},
	model.ApplicationInterviewScheduled: {
		subject: "Interview Scheduled - %s",
		body: template.Must(template.New("interview-scheduled").Parse(`
<p>Dear {{.CandidateName}},</p>
<p>Your interview for the <strong>{{.JobTitle}}</strong> position has been scheduled.</p>
{{if .Message}}<p>{{.Message}}</p>{{end}}
<p>We look forward to speaking with you!</p>
<p>Best regards,<br><strong>{{.CompanyName}} Recruitment Team</strong></p>`)),
	},
	model.ApplicationRejected: {
		subject: "Application Update - %s",
		body: template.Must(template.New("rejected").Parse(`
<p>Dear {{.CandidateName}},</p>
<p>Thank you for your interest in the <strong>{{.JobTitle}}</strong> position at <strong>{{.CompanyName}}</strong>.</p>
{{if .Message}}<p>{{.Message}}</p>{{else}}<p>After careful consideration, we have decided to move forward with other candidates. We encourage you to apply for future openings that match your skills.</p>{{end}}
<p>We wish you the best in your job search.</p>
<p>Best regards,<br><strong>{{.CompanyName}} Recruitment Team</strong></p>`)),
	},
	model.ApplicationHired: {
		subject: "Congratulations - %s",
		body: template.Must(template.New("hired").Parse(`
<p>Dear {{.CandidateName}},</p>
<p>Congratulations! We are delighted to offer you the <strong>{{.JobTitle}}</strong> position at <strong>{{.CompanyName}}</strong>.</p>
<p>Our team will contact you with the offer details and onboarding steps.</p>
<p>Welcome aboard!</p>
<p>Best regards,<br><strong>{{.CompanyName}} Recruitment Team</strong></p>`)),
	},
}

var headings = map[model.ApplicationStatus]string{
	StatusReceived:                      "Application Received",
	model.ApplicationReviewing:          "Application Under Review",
	model.ApplicationShortlisted:        "You've Been Shortlisted",
	model.ApplicationInterviewScheduled: "Interview Scheduled",
	model.ApplicationRejected:           "Application Update",
	model.ApplicationHired:              "Congratulations!",
}

// Render produces the subject and HTML body for a status notification.
func Render(data TemplateData) (subject, html string, err error) {
	tmpl, ok := templates[data.Status]
	if !ok {
		return "", "", fmt.Errorf("no email template for status %q", data.Status)
	}

	var inner bytes.Buffer
	if err := tmpl.body.Execute(&inner, data); err != nil {
		return "", "", fmt.Errorf("render email body: %w", err)
	}

	var out bytes.Buffer
	err = layoutTmpl.Execute(&out, struct {
		Heading string
		Body    template.HTML
	}{
		Heading: headings[data.Status],
		Body:    template.HTML(inner.String()),
	})
	if err != nil {
		return "", "", fmt.Errorf("render email layout: %w", err)
	}

	return fmt.Sprintf(tmpl.subject, data.JobTitle), out.String(), nil
}

// HasTemplate reports whether a status has a notification template.
func HasTemplate(status model.ApplicationStatus) bool {
	_, ok := templates[status]
	return ok
}

package templates

import (
	"fmt"
	"time"
)

// Kind identifies an email template.
type Kind string

const (
	KindNotification              Kind = "notification"
	KindEmailVerification         Kind = "email_verification"
	KindPasswordReset             Kind = "password_reset"
	KindWelcome                   Kind = "welcome"
	KindOnboardingComplete        Kind = "onboarding_complete"
	KindOTP                       Kind = "otp"
	KindMentorMessage             Kind = "mentor_message"
	KindSupportTicketInternal     Kind = "support_ticket_internal"
	KindSupportTicketConfirmation Kind = "support_ticket_confirmation"
)

// Kinds lists every registered template kind.
func Kinds() []Kind {
	return []Kind{
		KindNotification, KindEmailVerification, KindPasswordReset, KindWelcome,
		KindOnboardingComplete, KindOTP, KindMentorMessage,
		KindSupportTicketInternal, KindSupportTicketConfirmation,
	}
}

// Params carries the values templates interpolate. Each kind reads the subset it needs.
type Params struct {
	AppURL      string
	ProductName string

	RecipientName  string
	RecipientEmail string
	Role           string // mentor or student, for onboarding

	Title       string
	Message     string
	ActionURL   string // relative paths are resolved against AppURL
	ActionLabel string

	Token     string // email verification and password reset
	Code      string // one-time passcode
	ExpiresIn time.Duration

	SenderName  string // mentor message relay
	SenderEmail string

	TicketID string
	Category string
	Subject  string
}

func (p Params) withDefaults() Params {
	if p.ProductName == "" {
		p.ProductName = "Mentorly"
	}
	if p.RecipientName == "" {
		p.RecipientName = "there"
	}
	if p.ActionLabel == "" {
		p.ActionLabel = "View details"
	}
	if p.ExpiresIn <= 0 {
		p.ExpiresIn = 10 * time.Minute
	}
	return p
}

// Minutes is used by templates to print ExpiresIn.
func (p Params) Minutes() int {
	return int(p.ExpiresIn / time.Minute)
}

const button = `<p style="margin:24px 0;"><a href="{{.}}" style="background:#3b5bdb;color:#ffffff;padding:12px 20px;border-radius:6px;text-decoration:none;display:inline-block;">`

var registry = map[Kind]definition{
	KindNotification: define(KindNotification,
		func(p Params) string { return p.Title },
		`<h2 style="margin-top:0;">{{.Title}}</h2><p>Hi {{.RecipientName}},</p><p>{{.Message}}</p>`+
			`{{if .ActionURL}}{{with abs .AppURL .ActionURL}}`+button+`{{end}}{{.ActionLabel}}</a></p>{{end}}`,
		`{{.Title}}

Hi {{.RecipientName}},

{{.Message}}
{{if .ActionURL}}
{{.ActionLabel}}: {{abs .AppURL .ActionURL}}
{{end}}`),

	KindEmailVerification: define(KindEmailVerification,
		func(p Params) string { return fmt.Sprintf("Verify your %s email address", p.ProductName) },
		`<h2 style="margin-top:0;">Confirm your email</h2><p>Hi {{.RecipientName}},</p>`+
			`<p>Please confirm your email address to finish setting up your account.</p>`+
			`{{with abs .AppURL (printf "/verify-email?token=%s" .Token)}}`+button+`{{end}}Verify email</a></p>`+
			`<p style="color:#7b8794;font-size:13px;">If you did not create an account you can ignore this email.</p>`,
		`Hi {{.RecipientName}},

Please confirm your email address: {{abs .AppURL (printf "/verify-email?token=%s" .Token)}}

If you did not create an account you can ignore this email.`),

	KindPasswordReset: define(KindPasswordReset,
		func(p Params) string { return fmt.Sprintf("Reset your %s password", p.ProductName) },
		`<h2 style="margin-top:0;">Reset your password</h2><p>Hi {{.RecipientName}},</p>`+
			`<p>We received a request to reset your password. The link expires in {{.Minutes}} minutes.</p>`+
			`{{with abs .AppURL (printf "/reset-password?token=%s" .Token)}}`+button+`{{end}}Reset password</a></p>`+
			`<p style="color:#7b8794;font-size:13px;">If you did not request this, your password stays unchanged.</p>`,
		`Hi {{.RecipientName}},

Reset your password within {{.Minutes}} minutes: {{abs .AppURL (printf "/reset-password?token=%s" .Token)}}

If you did not request this, your password stays unchanged.`),

	KindWelcome: define(KindWelcome,
		func(p Params) string { return fmt.Sprintf("Welcome to %s", p.ProductName) },
		`<h2 style="margin-top:0;">Welcome, {{.RecipientName}}!</h2>`+
			`<p>Your account is ready. Complete your profile so we can match you with the right people.</p>`+
			`{{with abs .AppURL "/onboarding"}}`+button+`{{end}}Get started</a></p>`,
		`Welcome, {{.RecipientName}}!

Your account is ready. Complete your profile: {{abs .AppURL "/onboarding"}}`),

	KindOnboardingComplete: define(KindOnboardingComplete,
		func(p Params) string { return "Your profile is complete" },
		`<h2 style="margin-top:0;">You're all set, {{.RecipientName}}</h2>`+
			`<p>Your {{if .Role}}{{.Role}} {{end}}profile is complete and visible on the marketplace.</p>`+
			`{{with abs .AppURL "/dashboard"}}`+button+`{{end}}Go to dashboard</a></p>`,
		`You're all set, {{.RecipientName}}

Your {{if .Role}}{{.Role}} {{end}}profile is complete. Dashboard: {{abs .AppURL "/dashboard"}}`),

	KindOTP: define(KindOTP,
		func(p Params) string { return fmt.Sprintf("Your %s verification code", p.ProductName) },
		`<p>Hi {{.RecipientName}},</p><p>Your verification code is:</p>`+
			`<p style="font-size:28px;letter-spacing:6px;font-weight:bold;margin:24px 0;">{{.Code}}</p>`+
			`<p>The code expires in {{.Minutes}} minutes. Never share it with anyone.</p>`,
		`Hi {{.RecipientName}},

Your verification code is {{.Code}}. It expires in {{.Minutes}} minutes.`),

	KindMentorMessage: define(KindMentorMessage,
		func(p Params) string {
			if p.Subject != "" {
				return p.Subject
			}
			return fmt.Sprintf("New message from %s", p.SenderName)
		},
		`<p>Hi {{.RecipientName}},</p><p><strong>{{.SenderName}}</strong> sent you a message:</p>`+
			`<blockquote style="border-left:3px solid #3b5bdb;margin:16px 0;padding:8px 16px;color:#3e4c59;">{{.Message}}</blockquote>`+
			`{{with abs .AppURL "/dashboard/messages"}}`+button+`{{end}}Reply</a></p>`,
		`Hi {{.RecipientName}},

{{.SenderName}} sent you a message:

{{.Message}}

Reply: {{abs .AppURL "/dashboard/messages"}}`),

	KindSupportTicketInternal: define(KindSupportTicketInternal,
		func(p Params) string { return fmt.Sprintf("[Support #%s] %s", p.TicketID, p.Subject) },
		`<h2 style="margin-top:0;">New support ticket #{{.TicketID}}</h2>`+
			`<p><strong>From:</strong> {{.SenderName}} &lt;{{.SenderEmail}}&gt;<br><strong>Category:</strong> {{.Category}}<br><strong>Subject:</strong> {{.Subject}}</p>`+
			`<p>{{.Message}}</p>`,
		`New support ticket #{{.TicketID}}
From: {{.SenderName}} <{{.SenderEmail}}>
Category: {{.Category}}
Subject: {{.Subject}}

{{.Message}}`),

	KindSupportTicketConfirmation: define(KindSupportTicketConfirmation,
		func(p Params) string { return fmt.Sprintf("We received your request (#%s)", p.TicketID) },
		`<p>Hi {{.RecipientName}},</p><p>Thanks for reaching out. Your ticket <strong>#{{.TicketID}}</strong> ({{.Subject}}) is in our queue and we will reply by email.</p>`,
		`Hi {{.RecipientName}},

Thanks for reaching out. Your ticket #{{.TicketID}} ({{.Subject}}) is in our queue and we will reply by email.`),
}

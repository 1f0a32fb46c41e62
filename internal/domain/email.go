package domain

import "context"

// EmailMessage is one outgoing email. ReplyTo is optional.
type EmailMessage struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// EmailTemplateRenderer renders email bodies from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (htmlBody, textBody string, err error)
}

// InvitationEmailData holds data for the invitation email.
type InvitationEmailData struct {
	Email         string
	ReplyTo       string
	Subject       string
	Message       string
	AcceptURL     string
	CourseName    string
	InviterName   string
	PrivacyNotice string
	DaysExpire    int
	ExpiresOn     string
	SupportName   string
	SupportEmail  string
}

// InviterNoticeEmailData holds data for the accepted/rejected notice sent to the inviter.
type InviterNoticeEmailData struct {
	Email        string
	Subject      string
	InviteeEmail string
	CourseName   string
	Accepted     bool
	HistoryURL   string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
	SendInviterNotice(ctx context.Context, data *InviterNoticeEmailData) error
}

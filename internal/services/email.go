package services

import (
	"context"
	"fmt"
	"log"

	"enrolinvitation/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendInvitation sends the invitation email using the "invitation" template.
func (s *emailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation email data is nil")
	}
	htmlBody, textBody, err := s.renderer.Render("invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render invitation template: %w", err)
	}
	msg := &domain.EmailMessage{
		To:      data.Email,
		ReplyTo: data.ReplyTo,
		Subject: data.Subject,
		HTML:    htmlBody,
		Text:    textBody,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("[EMAIL] Invitation sent to %s", data.Email)
	return nil
}

// SendInviterNotice tells the inviter that their invitation was accepted or declined.
func (s *emailService) SendInviterNotice(ctx context.Context, data *domain.InviterNoticeEmailData) error {
	if data == nil {
		return fmt.Errorf("inviter notice data is nil")
	}
	htmlBody, textBody, err := s.renderer.Render("inviter_notice", data)
	if err != nil {
		return fmt.Errorf("failed to render inviter_notice template: %w", err)
	}
	msg := &domain.EmailMessage{
		To:      data.Email,
		Subject: data.Subject,
		HTML:    htmlBody,
		Text:    textBody,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send inviter notice: %w", err)
	}
	log.Printf("[EMAIL] Inviter notice sent to %s", data.Email)
	return nil
}

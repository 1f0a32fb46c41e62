package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"enrolinvitation/internal/adapters/i18n"
	"enrolinvitation/internal/domain"
	"enrolinvitation/internal/textutil"
)

const (
	dateLayout     = "January 2, 2006"
	dateTimeLayout = "January 2, 2006, 3:04 PM"
)

// InvitationConfig holds the site-wide settings the manager needs.
type InvitationConfig struct {
	SiteURL          string
	Period           time.Duration
	MaxTokenAttempts int
	SupportName      string
	SupportEmail     string
	Timeout          time.Duration
}

// InvitationDeps groups the collaborators of the invitation manager.
// Notices may be nil when no privacy notice provider is configured.
type InvitationDeps struct {
	Invitations  domain.InvitationRepository
	Courses      domain.CourseRepository
	Users        domain.UserRepository
	Roles        domain.RoleRepository
	Enrolments   domain.EnrolmentRepository
	Capabilities domain.CapabilityChecker
	Notices      domain.PrivacyNoticeProvider
	Tokens       domain.TokenGenerator
	Email        domain.EmailService
	Events       domain.EventRecorder
	Translator   domain.Translator
}

type invitationService struct {
	deps   InvitationDeps
	cfg    InvitationConfig
	logger *slog.Logger
}

func NewInvitationService(deps InvitationDeps, cfg InvitationConfig, logger *slog.Logger) domain.InvitationManager {
	if cfg.MaxTokenAttempts < 1 {
		cfg.MaxTokenAttempts = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")
	return &invitationService{deps: deps, cfg: cfg, logger: logger}
}

func (s *invitationService) requireCapability(ctx context.Context, actorID, courseID string) error {
	if actorID == "" {
		return domain.ErrPermissionDenied
	}
	ok, err := s.deps.Capabilities.HasCapability(ctx, actorID, domain.CapabilityEnrol, courseID)
	if err != nil {
		return fmt.Errorf("check capability: %w", err)
	}
	if !ok {
		return domain.ErrPermissionDenied
	}
	return nil
}

func courseOf(rc domain.RequestContext, courseID string) string {
	if courseID != "" {
		return courseID
	}
	return rc.CourseID
}

func (s *invitationService) SendInvitation(ctx context.Context, rc domain.RequestContext, data *domain.SendInvitationInput, resend bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if data == nil {
		return domain.ErrInvalidInput
	}
	courseID := courseOf(rc, data.CourseID)
	if err := s.requireCapability(ctx, rc.ActorID, courseID); err != nil {
		return err
	}

	email := strings.TrimSpace(strings.ToLower(data.Email))
	if email == "" {
		return nil
	}

	course, err := s.deps.Courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}

	var inv *domain.Invitation
	if resend {
		inv, err = s.prepareResend(ctx, courseID, data, rc)
	} else {
		inv, err = s.prepareNew(ctx, courseID, email, data, rc)
	}
	if err != nil {
		return err
	}

	msg, err := s.invitationEmail(ctx, rc, inv, course)
	if err != nil {
		return err
	}

	if resend {
		if err := s.deps.Invitations.UpdateForResend(ctx, inv); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
	} else {
		if err := s.deps.Invitations.Create(ctx, inv); err != nil {
			return fmt.Errorf("create invitation: %w", err)
		}
	}

	if err := s.deps.Email.SendInvitation(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "invitation email failed", "invitation_id", inv.ID, "email", inv.Email, "err", err)
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	if resend {
		err = s.deps.Events.InvitationUpdated(ctx, rc, inv)
	} else {
		err = s.deps.Events.InvitationSent(ctx, rc, inv)
	}
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

func (s *invitationService) prepareNew(ctx context.Context, courseID, email string, data *domain.SendInvitationInput, rc domain.RequestContext) (*domain.Invitation, error) {
	token, err := s.uniqueToken(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Invitation{
		CourseID:       courseID,
		Email:          email,
		Token:          token,
		RoleID:         data.RoleID,
		InviterID:      rc.ActorID,
		TimeSent:       rc.Now,
		TimeExpiration: rc.Now.Add(s.cfg.Period),
		Subject:        data.Subject,
		Message:        data.Message,
		NotifyInviter:  data.NotifyInviter,
		ShowFromEmail:  data.ShowFromEmail,
		DaysExpire:     data.DaysExpire,
	}, nil
}

func (s *invitationService) prepareResend(ctx context.Context, courseID string, data *domain.SendInvitationInput, rc domain.RequestContext) (*domain.Invitation, error) {
	if data.Token == "" {
		return nil, fmt.Errorf("%w: token is required to resend", domain.ErrInvalidInput)
	}
	inv, err := s.deps.Invitations.GetByToken(ctx, data.Token)
	if err != nil {
		return nil, err
	}
	if inv.CourseID != courseID {
		return nil, domain.ErrNotFound
	}
	if inv.TokenUsed {
		return nil, domain.ErrInvitationUsed
	}

	prefix := s.deps.Translator.T(i18n.KeyReminderPrefix)
	subject := data.Subject
	if !strings.HasPrefix(subject, prefix) {
		subject = prefix + subject
	}
	inv.TimeSent = rc.Now
	inv.TimeExpiration = rc.Now.Add(s.cfg.Period)
	inv.Subject = subject
	inv.Message = data.Message
	inv.NotifyInviter = data.NotifyInviter
	inv.ShowFromEmail = data.ShowFromEmail
	return inv, nil
}

// uniqueToken draws tokens until one is not present in the store, giving up
// after MaxTokenAttempts draws.
func (s *invitationService) uniqueToken(ctx context.Context) (string, error) {
	for range s.cfg.MaxTokenAttempts {
		token, err := s.deps.Tokens.NewToken()
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrTokenGenerationFailed, err)
		}
		exists, err := s.deps.Invitations.TokenExists(ctx, token)
		if err != nil {
			return "", fmt.Errorf("check token: %w", err)
		}
		if !exists {
			return token, nil
		}
		s.logger.WarnContext(ctx, "invitation token collision, retrying")
	}
	return "", domain.ErrTokenGenerationFailed
}

func (s *invitationService) invitationEmail(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation, course *domain.Course) (*domain.InvitationEmailData, error) {
	msg := &domain.InvitationEmailData{
		Email:        inv.Email,
		Subject:      inv.Subject,
		Message:      inv.Message,
		AcceptURL:    s.cfg.SiteURL + "/invitations/" + inv.Token,
		CourseName:   course.FullName,
		ExpiresOn:    inv.TimeExpiration.Format(dateLayout),
		SupportName:  s.cfg.SupportName,
		SupportEmail: s.cfg.SupportEmail,
	}
	if inv.DaysExpire != nil {
		msg.DaysExpire = *inv.DaysExpire
	}

	inviter, err := s.deps.Users.GetByID(ctx, rc.ActorID)
	switch {
	case err == nil:
		msg.InviterName = inviter.FullName()
		if inv.ShowFromEmail {
			msg.ReplyTo = inviter.Email
		}
	case errors.Is(err, domain.ErrUserNotFound):
	default:
		return nil, fmt.Errorf("get inviter: %w", err)
	}

	if s.deps.Notices != nil {
		notice, ok, err := s.deps.Notices.PrivacyNotice(ctx, inv.CourseID)
		if err != nil {
			s.logger.WarnContext(ctx, "privacy notice lookup failed", "course_id", inv.CourseID, "err", err)
		} else if ok {
			msg.PrivacyNotice = notice
		}
	}
	return msg, nil
}

func (s *invitationService) InviteStatus(inv *domain.Invitation, now time.Time) domain.InvitationStatus {
	return domain.InvitationStatusAt(inv, now)
}

func (s *invitationService) AccessExpiration(ctx context.Context, inv *domain.Invitation) (string, error) {
	if inv == nil || inv.UserID == nil || *inv.UserID == "" {
		return "", nil
	}
	end, enrolled, err := s.deps.Enrolments.GetEnrolmentEnd(ctx, inv.CourseID, *inv.UserID)
	if err != nil {
		return "", fmt.Errorf("get enrolment end: %w", err)
	}
	if !enrolled {
		return s.deps.Translator.T(i18n.KeyUserNoAccess), nil
	}
	if end.IsZero() {
		return "", nil
	}
	return s.deps.Translator.T(i18n.KeyUserAccessEnds, end.Format(dateLayout)), nil
}

// enrolmentEnd returns the last second of the day daysExpire days after now,
// or the zero time when the role is not day-limited.
func enrolmentEnd(now time.Time, daysExpire *int) time.Time {
	if daysExpire == nil {
		return time.Time{}
	}
	y, m, d := now.Date()
	return time.Date(y, m, d+*daysExpire, 23, 59, 59, 0, now.Location())
}

func (s *invitationService) EnrolUser(ctx context.Context, rc domain.RequestContext, inv *domain.Invitation) error {
	if inv == nil || inv.UserID == nil || *inv.UserID == "" {
		return domain.ErrInvalidInput
	}
	instance, err := s.deps.Enrolments.GetInstance(ctx, inv.CourseID)
	if err != nil {
		return err
	}
	return s.enrol(ctx, rc, instance, inv)
}

func newEnrolment(rc domain.RequestContext, instance *domain.EnrolInstance, inv *domain.Invitation, userID string) *domain.Enrolment {
	return &domain.Enrolment{
		InstanceID: instance.ID,
		UserID:     userID,
		RoleID:     inv.RoleID,
		TimeStart:  rc.Now,
		TimeEnd:    enrolmentEnd(rc.Now, inv.DaysExpire),
	}
}

func (s *invitationService) enrol(ctx context.Context, rc domain.RequestContext, instance *domain.EnrolInstance, inv *domain.Invitation) error {
	e := newEnrolment(rc, instance, inv, *inv.UserID)
	if err := s.deps.Enrolments.EnrolUser(ctx, e); err != nil {
		return fmt.Errorf("enrol user: %w", err)
	}
	return nil
}

func (s *invitationService) WhoUsedInvite(ctx context.Context, inv *domain.Invitation) (*domain.UsageInfo, error) {
	if inv == nil || inv.UserID == nil || *inv.UserID == "" || !inv.TokenUsed || inv.CourseID == "" || inv.TimeUsed == nil {
		return nil, nil
	}
	user, err := s.deps.Users.GetByID(ctx, *inv.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	roles, err := s.deps.Roles.ListByUserInCourse(ctx, user.ID, inv.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	// no roles left means the user was removed after accepting
	if len(roles) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, textutil.StripTags(r.Name))
	}
	return &domain.UsageInfo{
		FullName: user.FullName(),
		Email:    user.Email,
		Roles:    strings.Join(names, ", "),
		TimeUsed: inv.TimeUsed.Format(dateTimeLayout),
	}, nil
}

func (s *invitationService) Invites(ctx context.Context, rc domain.RequestContext, courseID string) ([]*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	invites, err := s.deps.Invitations.ListByCourseID(ctx, courseOf(rc, courseID))
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	if invites == nil {
		invites = []*domain.Invitation{}
	}
	return invites, nil
}

// GetInvitation returns one invitation of the bound course. The capability is
// checked before the lookup so callers without it cannot probe for ids.
func (s *invitationService) GetInvitation(ctx context.Context, rc domain.RequestContext, invitationID string) (*domain.Invitation, error) {
	if err := s.requireCapability(ctx, rc.ActorID, rc.CourseID); err != nil {
		return nil, err
	}
	inv, err := s.deps.Invitations.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.CourseID != rc.CourseID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (s *invitationService) ListInvitations(ctx context.Context, rc domain.RequestContext, courseID string) ([]*domain.InvitationView, error) {
	courseID = courseOf(rc, courseID)
	if err := s.requireCapability(ctx, rc.ActorID, courseID); err != nil {
		return nil, err
	}
	invites, err := s.Invites(ctx, rc, courseID)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.InvitationView, 0, len(invites))
	for _, inv := range invites {
		status := domain.InvitationStatusAt(inv, rc.Now)
		view := &domain.InvitationView{
			Invitation:  inv,
			Status:      status,
			StatusLabel: s.deps.Translator.T(i18n.StatusKey(status)),
		}
		if view.UsedBy, err = s.WhoUsedInvite(ctx, inv); err != nil {
			return nil, err
		}
		if view.AccessExpiration, err = s.AccessExpiration(ctx, inv); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *invitationService) ViewInvitation(ctx context.Context, rc domain.RequestContext, token string) (*domain.InvitationLanding, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	inv, err := s.deps.Invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	course, err := s.deps.Courses.GetByID(ctx, inv.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	landing := &domain.InvitationLanding{
		Invitation: inv,
		Course:     course,
		Status:     domain.InvitationStatusAt(inv, rc.Now),
		RoleName:   s.roleName(ctx, inv.RoleID),
	}
	if inviter, err := s.deps.Users.GetByID(ctx, inv.InviterID); err == nil {
		landing.InviterName = inviter.FullName()
	}

	if err := s.deps.Events.InvitationViewed(ctx, rc, inv); err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}
	return landing, nil
}

func (s *invitationService) roleName(ctx context.Context, roleID string) string {
	role, err := s.deps.Roles.GetByID(ctx, roleID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "role lookup failed", "role_id", roleID, "err", err)
		}
		return ""
	}
	return textutil.StripTags(role.Name)
}

// activeInvitation loads the invitation for token and checks it can still be redeemed.
func (s *invitationService) activeInvitation(ctx context.Context, token string, now time.Time) (*domain.Invitation, error) {
	inv, err := s.deps.Invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	switch domain.InvitationStatusAt(inv, now) {
	case domain.StatusActive:
		return inv, nil
	case domain.StatusUsed:
		return nil, domain.ErrInvitationUsed
	case domain.StatusExpired:
		return nil, domain.ErrInvitationExpired
	default:
		return nil, domain.ErrNotFound
	}
}

func (s *invitationService) AcceptInvitation(ctx context.Context, rc domain.RequestContext, token string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if rc.ActorID == "" {
		return nil, domain.ErrPermissionDenied
	}
	inv, err := s.activeInvitation(ctx, token, rc.Now)
	if err != nil {
		return nil, err
	}
	instance, err := s.deps.Enrolments.GetInstance(ctx, inv.CourseID)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Invitations.Redeem(ctx, inv.ID, newEnrolment(rc, instance, inv, rc.ActorID)); err != nil {
		return nil, fmt.Errorf("redeem invitation: %w", err)
	}
	userID, usedAt := rc.ActorID, rc.Now
	inv.TokenUsed = true
	inv.UserID = &userID
	inv.TimeUsed = &usedAt
	if err := s.deps.Events.InvitationAccepted(ctx, rc, inv); err != nil {
		return nil, fmt.Errorf("record event: %w", err)
	}
	if inv.NotifyInviter {
		s.notifyInviter(ctx, inv, true)
	}
	return inv, nil
}

func (s *invitationService) RejectInvitation(ctx context.Context, rc domain.RequestContext, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	inv, err := s.activeInvitation(ctx, token, rc.Now)
	if err != nil {
		return err
	}
	if err := s.deps.Events.InvitationRejected(ctx, rc, inv); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	if inv.NotifyInviter {
		s.notifyInviter(ctx, inv, false)
	}
	return nil
}

// notifyInviter mails the inviter about the outcome. Failures are logged only,
// the redemption has already been committed.
func (s *invitationService) notifyInviter(ctx context.Context, inv *domain.Invitation, accepted bool) {
	inviter, err := s.deps.Users.GetByID(ctx, inv.InviterID)
	if err != nil {
		s.logger.WarnContext(ctx, "inviter lookup failed", "invitation_id", inv.ID, "err", err)
		return
	}
	courseName := inv.CourseID
	if course, err := s.deps.Courses.GetByID(ctx, inv.CourseID); err == nil {
		courseName = course.FullName
	}
	key := i18n.KeyInviterRejected
	if accepted {
		key = i18n.KeyInviterAccepted
	}
	data := &domain.InviterNoticeEmailData{
		Email:        inviter.Email,
		Subject:      s.deps.Translator.T(key, courseName),
		InviteeEmail: inv.Email,
		CourseName:   courseName,
		Accepted:     accepted,
		HistoryURL:   s.cfg.SiteURL + "/courses/" + inv.CourseID + "/invitations",
	}
	if err := s.deps.Email.SendInviterNotice(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "inviter notice failed", "invitation_id", inv.ID, "err", err)
	}
}

func (s *invitationService) RevokeInvitation(ctx context.Context, rc domain.RequestContext, invitationID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	inv, err := s.deps.Invitations.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if rc.CourseID != "" && rc.CourseID != inv.CourseID {
		return domain.ErrNotFound
	}
	if err := s.requireCapability(ctx, rc.ActorID, inv.CourseID); err != nil {
		return err
	}
	if inv.TokenUsed {
		return domain.ErrInvitationUsed
	}

	status := domain.InvitationStatusAt(inv, rc.Now)
	display := domain.DeletedDisplay{
		StatusLabel: s.deps.Translator.T(i18n.StatusKey(status)),
		RoleName:    s.roleName(ctx, inv.RoleID),
		Expiration:  inv.TimeExpiration.Format(dateLayout),
	}
	if err := s.deps.Invitations.Delete(ctx, inv.ID); err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if err := s.deps.Events.InvitationDeleted(ctx, rc, inv, display); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

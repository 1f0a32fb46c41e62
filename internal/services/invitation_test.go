package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"enrolinvitation/internal/adapters/i18n"
	"enrolinvitation/internal/domain"
)

// fakeInvitationRepo is an in-memory InvitationRepository for tests.
type fakeInvitationRepo struct {
	byID    map[string]*domain.Invitation
	nextID  int
	writes  int
	created []*domain.Invitation
	err     error // if set, Create returns this error
	enrol   func(ctx context.Context, e *domain.Enrolment) error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{byID: make(map[string]*domain.Invitation), nextID: 1}
}

func (f *fakeInvitationRepo) add(inv *domain.Invitation) {
	f.byID[inv.ID] = inv
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	if f.err != nil {
		return f.err
	}
	inv.ID = fmt.Sprintf("inv-%d", f.nextID)
	f.nextID++
	f.writes++
	f.created = append(f.created, inv)
	f.byID[inv.ID] = inv
	return nil
}

func (f *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	if inv, ok := f.byID[id]; ok {
		return inv, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range f.byID {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationRepo) TokenExists(ctx context.Context, token string) (bool, error) {
	_, err := f.GetByToken(ctx, token)
	return err == nil, nil
}

func (f *fakeInvitationRepo) ListByCourseID(ctx context.Context, courseID string) ([]*domain.Invitation, error) {
	var out []*domain.Invitation
	for i := 1; i <= len(f.byID)+f.nextID; i++ {
		if inv, ok := f.byID[fmt.Sprintf("inv-%d", i)]; ok && inv.CourseID == courseID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) UpdateForResend(ctx context.Context, inv *domain.Invitation) error {
	if _, ok := f.byID[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	f.writes++
	f.byID[inv.ID] = inv
	return nil
}

// Redeem only marks the token used when the enrolment succeeds, like the SQL transaction.
func (f *fakeInvitationRepo) Redeem(ctx context.Context, id string, e *domain.Enrolment) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if inv.TokenUsed {
		return domain.ErrInvitationUsed
	}
	if f.enrol != nil {
		if err := f.enrol(ctx, e); err != nil {
			return err
		}
	}
	f.writes++
	userID, timeUsed := e.UserID, e.TimeStart
	inv.TokenUsed = true
	inv.UserID = &userID
	inv.TimeUsed = &timeUsed
	return nil
}

func (f *fakeInvitationRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	f.writes++
	delete(f.byID, id)
	return nil
}

type fakeCourseRepo struct {
	byID map[string]*domain.Course
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

type fakeUserRepo struct {
	byID map[string]*domain.User
	err  error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type fakeRoleRepo struct {
	byID        map[string]*domain.Role
	assignments map[string][]*domain.Role // key: userID
}

func (f *fakeRoleRepo) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRoleRepo) ListByUserInCourse(ctx context.Context, userID, courseID string) ([]*domain.Role, error) {
	return f.assignments[userID], nil
}

type fakeEnrolmentEnd struct {
	end      time.Time
	enrolled bool
}

type fakeEnrolmentRepo struct {
	instances map[string]*domain.EnrolInstance
	enrolled  []*domain.Enrolment
	ends      map[string]fakeEnrolmentEnd // key: userID
	err       error
}

func (f *fakeEnrolmentRepo) GetInstance(ctx context.Context, courseID string) (*domain.EnrolInstance, error) {
	if inst, ok := f.instances[courseID]; ok && inst.Enabled {
		return inst, nil
	}
	return nil, domain.ErrNoInstanceFound
}

func (f *fakeEnrolmentRepo) EnrolUser(ctx context.Context, e *domain.Enrolment) error {
	if f.err != nil {
		return f.err
	}
	f.enrolled = append(f.enrolled, e)
	return nil
}

func (f *fakeEnrolmentRepo) GetEnrolmentEnd(ctx context.Context, courseID, userID string) (time.Time, bool, error) {
	e := f.ends[userID]
	return e.end, e.enrolled, nil
}

type fakeCapabilities struct {
	allowed map[string]bool // key: userID
}

func (f *fakeCapabilities) HasCapability(ctx context.Context, userID, capability, courseID string) (bool, error) {
	return f.allowed[userID], nil
}

type fakeNotices struct {
	notice string
	err    error
}

func (f *fakeNotices) PrivacyNotice(ctx context.Context, courseID string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	return f.notice, f.notice != "", nil
}

// fakeTokens returns the queued tokens in order, then "tok-<n>".
type fakeTokens struct {
	queue []string
	calls int
}

func (f *fakeTokens) NewToken() (string, error) {
	f.calls++
	if len(f.queue) > 0 {
		t := f.queue[0]
		f.queue = f.queue[1:]
		return t, nil
	}
	return fmt.Sprintf("tok-%d", f.calls), nil
}

type fakeEmailService struct {
	invitations []*domain.InvitationEmailData
	notices     []*domain.InviterNoticeEmailData
	err         error
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.invitations = append(f.invitations, data)
	return nil
}

func (f *fakeEmailService) SendInviterNotice(ctx context.Context, data *domain.InviterNoticeEmailData) error {
	f.notices = append(f.notices, data)
	return nil
}

var testNow = time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

const testPeriod = 14 * 24 * time.Hour

type invitationFixture struct {
	svc         domain.InvitationManager
	invitations *fakeInvitationRepo
	users       *fakeUserRepo
	roles       *fakeRoleRepo
	enrolments  *fakeEnrolmentRepo
	notices     *fakeNotices
	tokens      *fakeTokens
	email       *fakeEmailService
	audit       *fakeAuditLog
}

func newInvitationFixture(t *testing.T) *invitationFixture {
	t.Helper()
	f := &invitationFixture{
		invitations: newFakeInvitationRepo(),
		users: &fakeUserRepo{byID: map[string]*domain.User{
			"teacher-1": {ID: "teacher-1", Email: "teacher@example.com", FirstName: "Ada", LastName: "Lovelace"},
			"student-1": {ID: "student-1", Email: "student@example.com", FirstName: "Sam", LastName: "Student"},
		}},
		roles: &fakeRoleRepo{
			byID: map[string]*domain.Role{"role-student": {ID: "role-student", ShortName: "student", Name: "Student"}},
			assignments: map[string][]*domain.Role{
				"student-1": {{ID: "role-student", Name: "<b>Student</b>"}, {ID: "role-ta", Name: "<span lang=\"en\">Teaching assistant</span>"}},
			},
		},
		enrolments: &fakeEnrolmentRepo{
			instances: map[string]*domain.EnrolInstance{"course-1": {ID: "inst-1", CourseID: "course-1", Enabled: true}},
			ends:      map[string]fakeEnrolmentEnd{},
		},
		notices: &fakeNotices{},
		tokens:  &fakeTokens{},
		email:   &fakeEmailService{},
		audit:   &fakeAuditLog{},
	}
	deps := InvitationDeps{
		Invitations:  f.invitations,
		Courses:      &fakeCourseRepo{byID: map[string]*domain.Course{"course-1": {ID: "course-1", FullName: "Biology 101", ShortName: "BIO101"}}},
		Users:        f.users,
		Roles:        f.roles,
		Enrolments:   f.enrolments,
		Capabilities: &fakeCapabilities{allowed: map[string]bool{"teacher-1": true}},
		Notices:      f.notices,
		Tokens:       f.tokens,
		Email:        f.email,
		Events:       newTestRecorder(f.audit),
		Translator:   i18n.NewTranslator("en"),
	}
	cfg := InvitationConfig{
		SiteURL:          "https://lms.example.com/",
		Period:           testPeriod,
		MaxTokenAttempts: 3,
		SupportName:      "Helpdesk",
		SupportEmail:     "help@example.com",
	}
	f.invitations.enrol = f.enrolments.EnrolUser
	f.svc = NewInvitationService(deps, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return f
}

func teacherRC() domain.RequestContext {
	return domain.RequestContext{ActorID: "teacher-1", CourseID: "course-1", Now: testNow}
}

func intPtr(n int) *int { return &n }

func TestInviteStatus(t *testing.T) {
	svc := newInvitationFixture(t).svc
	future := testNow.Add(time.Hour)
	past := testNow.Add(-time.Hour)

	tests := []struct {
		name string
		inv  *domain.Invitation
		want domain.InvitationStatus
	}{
		{"nil invitation", nil, domain.StatusInvalid},
		{"missing token", &domain.Invitation{ID: "inv-1", TimeExpiration: future}, domain.StatusInvalid},
		{"active", &domain.Invitation{ID: "inv-1", Token: "t", TimeExpiration: future}, domain.StatusActive},
		{"expired", &domain.Invitation{ID: "inv-1", Token: "t", TimeExpiration: past}, domain.StatusExpired},
		{"used before expiry", &domain.Invitation{ID: "inv-1", Token: "t", TokenUsed: true, TimeExpiration: future}, domain.StatusUsed},
		{"used after expiry", &domain.Invitation{ID: "inv-1", Token: "t", TokenUsed: true, TimeExpiration: past}, domain.StatusUsed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, svc.InviteStatus(tt.inv, testNow))
		})
	}
}

func TestSendInvitation_New(t *testing.T) {
	f := newInvitationFixture(t)
	f.notices.notice = "Lectures are recorded."

	input := &domain.SendInvitationInput{
		Email:         "  Student@Example.com ",
		RoleID:        "role-student",
		Subject:       "Join Biology 101",
		Message:       "See you in class",
		ShowFromEmail: true,
		NotifyInviter: true,
		DaysExpire:    intPtr(30),
	}
	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), input, false))

	require.Len(t, f.invitations.created, 1)
	inv := f.invitations.created[0]
	assert.Equal(t, "course-1", inv.CourseID)
	assert.Equal(t, "student@example.com", inv.Email)
	assert.Equal(t, "tok-1", inv.Token)
	assert.Equal(t, "teacher-1", inv.InviterID)
	assert.Equal(t, testNow, inv.TimeSent)
	assert.Equal(t, testNow.Add(testPeriod), inv.TimeExpiration)
	assert.False(t, inv.TokenUsed)

	require.Len(t, f.email.invitations, 1)
	msg := f.email.invitations[0]
	assert.Equal(t, "student@example.com", msg.Email)
	assert.Equal(t, "teacher@example.com", msg.ReplyTo)
	assert.Equal(t, "https://lms.example.com/invitations/tok-1", msg.AcceptURL)
	assert.Equal(t, "Biology 101", msg.CourseName)
	assert.Equal(t, "Ada Lovelace", msg.InviterName)
	assert.Equal(t, "Lectures are recorded.", msg.PrivacyNotice)
	assert.Equal(t, 30, msg.DaysExpire)
	assert.Equal(t, "January 24, 2024", msg.ExpiresOn)
	assert.Equal(t, "Helpdesk", msg.SupportName)
	assert.Equal(t, "help@example.com", msg.SupportEmail)

	assert.Equal(t, []domain.AuditEventName{domain.EventInvitationSent}, f.audit.names())
}

func TestSendInvitation_HidesInviterEmail(t *testing.T) {
	f := newInvitationFixture(t)
	input := &domain.SendInvitationInput{Email: "student@example.com", RoleID: "role-student"}
	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), input, false))
	require.Len(t, f.email.invitations, 1)
	assert.Empty(t, f.email.invitations[0].ReplyTo)
	assert.Zero(t, f.email.invitations[0].DaysExpire)
}

func TestSendInvitation_SkipsExistingToken(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(&domain.Invitation{ID: "inv-99", CourseID: "course-1", Token: "abc"})
	f.tokens.queue = []string{"abc", "def"}

	input := &domain.SendInvitationInput{Email: "student@example.com", RoleID: "role-student"}
	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), input, false))

	require.Len(t, f.invitations.created, 1)
	assert.Equal(t, "def", f.invitations.created[0].Token)
	assert.Equal(t, 2, f.tokens.calls)
}

func TestSendInvitation_TokenAttemptsExhausted(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(&domain.Invitation{ID: "inv-99", CourseID: "course-1", Token: "abc"})
	f.tokens.queue = []string{"abc", "abc", "abc", "abc"}

	input := &domain.SendInvitationInput{Email: "student@example.com"}
	err := f.svc.SendInvitation(context.Background(), teacherRC(), input, false)
	require.ErrorIs(t, err, domain.ErrTokenGenerationFailed)
	assert.Equal(t, 3, f.tokens.calls)
	assert.Empty(t, f.invitations.created)
	assert.Empty(t, f.email.invitations)
}

func TestSendInvitation_EmptyEmailIsNoop(t *testing.T) {
	f := newInvitationFixture(t)
	input := &domain.SendInvitationInput{Email: "   ", RoleID: "role-student", Subject: "x", DaysExpire: intPtr(3)}

	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), input, false))
	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), input, true))

	assert.Zero(t, f.invitations.writes)
	assert.Empty(t, f.email.invitations)
	assert.Empty(t, f.audit.events)
	assert.Zero(t, f.tokens.calls)
}

func TestSendInvitation_PermissionDenied(t *testing.T) {
	f := newInvitationFixture(t)
	rc := teacherRC()
	rc.ActorID = "student-1"

	err := f.svc.SendInvitation(context.Background(), rc, &domain.SendInvitationInput{Email: "a@example.com"}, false)
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Zero(t, f.invitations.writes)
}

func TestSendInvitation_Resend(t *testing.T) {
	f := newInvitationFixture(t)
	original := &domain.Invitation{
		ID: "inv-1", CourseID: "course-1", Email: "student@example.com", Token: "keep-me",
		RoleID: "role-student", InviterID: "teacher-2", DaysExpire: intPtr(3),
		TimeSent: testNow.Add(-20 * 24 * time.Hour), TimeExpiration: testNow.Add(-6 * 24 * time.Hour),
		Subject: "Join Biology 101",
	}
	f.invitations.add(original)

	// role and duration in the form are ignored on a reminder
	input := &domain.SendInvitationInput{
		Email: "student@example.com", Token: "keep-me", Subject: "Join Biology 101", RoleID: "role-editingteacher",
	}
	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), input, true))

	inv := f.invitations.byID["inv-1"]
	assert.Equal(t, "keep-me", inv.Token)
	assert.Equal(t, testNow.Add(testPeriod), inv.TimeExpiration)
	assert.Equal(t, testNow, inv.TimeSent)
	assert.Equal(t, "Reminder: Join Biology 101", inv.Subject)
	assert.Equal(t, "role-student", inv.RoleID)
	assert.Equal(t, "teacher-2", inv.InviterID)
	require.NotNil(t, inv.DaysExpire)
	assert.Equal(t, 3, *inv.DaysExpire)
	assert.Zero(t, f.tokens.calls)
	assert.Empty(t, f.invitations.created)

	require.Len(t, f.email.invitations, 1)
	assert.Equal(t, "https://lms.example.com/invitations/keep-me", f.email.invitations[0].AcceptURL)
	assert.Equal(t, []domain.AuditEventName{domain.EventInvitationUpdated}, f.audit.names())

	// a second reminder does not stack the prefix
	input.Subject = inv.Subject
	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), input, true))
	assert.Equal(t, "Reminder: Join Biology 101", f.invitations.byID["inv-1"].Subject)
}

func TestSendInvitation_ResendErrors(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(&domain.Invitation{ID: "inv-1", CourseID: "course-1", Email: "a@example.com", Token: "used", TokenUsed: true})
	f.invitations.add(&domain.Invitation{ID: "inv-2", CourseID: "course-2", Email: "b@example.com", Token: "other-course"})

	ctx := context.Background()
	err := f.svc.SendInvitation(ctx, teacherRC(), &domain.SendInvitationInput{Email: "a@example.com"}, true)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.svc.SendInvitation(ctx, teacherRC(), &domain.SendInvitationInput{Email: "a@example.com", Token: "used"}, true)
	require.ErrorIs(t, err, domain.ErrInvitationUsed)

	err = f.svc.SendInvitation(ctx, teacherRC(), &domain.SendInvitationInput{Email: "b@example.com", Token: "other-course"}, true)
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.invitations.writes)
}

func TestSendInvitation_DeliveryFailureKeepsRecord(t *testing.T) {
	f := newInvitationFixture(t)
	f.email.err = errors.New("ses throttled")

	input := &domain.SendInvitationInput{Email: "student@example.com"}
	err := f.svc.SendInvitation(context.Background(), teacherRC(), input, false)
	require.ErrorIs(t, err, domain.ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "ses throttled")

	assert.Len(t, f.invitations.created, 1)
	assert.Empty(t, f.audit.events)
}

func TestSendInvitation_PrivacyNoticeErrorIgnored(t *testing.T) {
	f := newInvitationFixture(t)
	f.notices.err = errors.New("classification service down")

	require.NoError(t, f.svc.SendInvitation(context.Background(), teacherRC(), &domain.SendInvitationInput{Email: "student@example.com"}, false))
	require.Len(t, f.email.invitations, 1)
	assert.Empty(t, f.email.invitations[0].PrivacyNotice)
}

func TestEnrolmentEnd(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 13, 23, 59, 59, 0, time.UTC), enrolmentEnd(testNow, intPtr(3)))
	assert.Equal(t, time.Date(2024, 2, 1, 23, 59, 59, 0, time.UTC), enrolmentEnd(time.Date(2024, 1, 31, 23, 0, 0, 0, time.UTC), intPtr(1)))
	assert.True(t, enrolmentEnd(testNow, nil).IsZero())
}

func TestEnrolUser(t *testing.T) {
	tests := []struct {
		name       string
		daysExpire *int
		wantEnd    time.Time
	}{
		{"day limited", intPtr(3), time.Date(2024, 1, 13, 23, 59, 59, 0, time.UTC)},
		{"unrestricted", nil, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInvitationFixture(t)
			userID := "student-1"
			inv := &domain.Invitation{ID: "inv-1", CourseID: "course-1", RoleID: "role-student", UserID: &userID, DaysExpire: tt.daysExpire}

			require.NoError(t, f.svc.EnrolUser(context.Background(), teacherRC(), inv))
			require.Len(t, f.enrolments.enrolled, 1)
			e := f.enrolments.enrolled[0]
			assert.Equal(t, "inst-1", e.InstanceID)
			assert.Equal(t, "student-1", e.UserID)
			assert.Equal(t, "role-student", e.RoleID)
			assert.Equal(t, testNow, e.TimeStart)
			assert.Equal(t, tt.wantEnd, e.TimeEnd)
		})
	}
}

func TestEnrolUser_NoInstance(t *testing.T) {
	f := newInvitationFixture(t)
	userID := "student-1"
	inv := &domain.Invitation{ID: "inv-1", CourseID: "course-2", UserID: &userID}
	require.ErrorIs(t, f.svc.EnrolUser(context.Background(), teacherRC(), inv), domain.ErrNoInstanceFound)
	require.ErrorIs(t, f.svc.EnrolUser(context.Background(), teacherRC(), &domain.Invitation{}), domain.ErrInvalidInput)
}

func usedInvitation(userID string) *domain.Invitation {
	used := testNow.Add(-time.Hour)
	return &domain.Invitation{
		ID: "inv-1", CourseID: "course-1", Email: "student@example.com", Token: "t",
		TokenUsed: true, UserID: &userID, TimeUsed: &used,
	}
}

func TestWhoUsedInvite(t *testing.T) {
	f := newInvitationFixture(t)
	ctx := context.Background()

	info, err := f.svc.WhoUsedInvite(ctx, usedInvitation("student-1"))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "Sam Student", info.FullName)
	assert.Equal(t, "student@example.com", info.Email)
	assert.Equal(t, "Student, Teaching assistant", info.Roles)
	assert.NotContains(t, info.Roles, "<")
	assert.Equal(t, "January 10, 2024, 7:00 AM", info.TimeUsed)
}

func TestWhoUsedInvite_Nothing(t *testing.T) {
	f := newInvitationFixture(t)
	f.users.byID["removed-1"] = &domain.User{ID: "removed-1", Email: "gone@example.com"}

	noTime := usedInvitation("student-1")
	noTime.TimeUsed = nil
	notUsed := usedInvitation("student-1")
	notUsed.TokenUsed = false
	noCourse := usedInvitation("student-1")
	noCourse.CourseID = ""

	tests := []struct {
		name string
		inv  *domain.Invitation
	}{
		{"nil", nil},
		{"time used unset", noTime},
		{"token not used", notUsed},
		{"course unset", noCourse},
		{"user not found", usedInvitation("ghost")},
		{"no course role", usedInvitation("removed-1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := f.svc.WhoUsedInvite(context.Background(), tt.inv)
			require.NoError(t, err)
			assert.Nil(t, info)
		})
	}
}

func TestAccessExpiration(t *testing.T) {
	f := newInvitationFixture(t)
	f.enrolments.ends["student-1"] = fakeEnrolmentEnd{end: time.Date(2024, 1, 13, 23, 59, 59, 0, time.UTC), enrolled: true}
	f.enrolments.ends["forever-1"] = fakeEnrolmentEnd{enrolled: true}
	ctx := context.Background()

	got, err := f.svc.AccessExpiration(ctx, usedInvitation("student-1"))
	require.NoError(t, err)
	assert.Equal(t, "Access ends on January 13, 2024", got)

	got, err = f.svc.AccessExpiration(ctx, usedInvitation("forever-1"))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.svc.AccessExpiration(ctx, usedInvitation("unenrolled-1"))
	require.NoError(t, err)
	assert.Equal(t, "User no longer has access", got)

	got, err = f.svc.AccessExpiration(ctx, &domain.Invitation{ID: "inv-2"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInvites(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(&domain.Invitation{ID: "inv-1", CourseID: "course-1", Token: "a"})
	f.invitations.add(&domain.Invitation{ID: "inv-2", CourseID: "course-2", Token: "b"})

	got, err := f.svc.Invites(context.Background(), teacherRC(), "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "inv-1", got[0].ID)

	got, err = f.svc.Invites(context.Background(), teacherRC(), "course-3")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetInvitation(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(activeInvitation())
	f.invitations.add(&domain.Invitation{ID: "inv-2", CourseID: "course-2", Email: "b@example.com", Token: "other"})
	ctx := context.Background()

	inv, err := f.svc.GetInvitation(ctx, teacherRC(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "tok", inv.Token)

	_, err = f.svc.GetInvitation(ctx, teacherRC(), "inv-2")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.svc.GetInvitation(ctx, teacherRC(), "inv-404")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// without the capability existing and unknown ids look the same
	rc := teacherRC()
	rc.ActorID = "student-1"
	for _, id := range []string{"inv-1", "inv-404"} {
		_, err = f.svc.GetInvitation(ctx, rc, id)
		require.ErrorIs(t, err, domain.ErrPermissionDenied, id)
	}
}

func TestListInvitations(t *testing.T) {
	f := newInvitationFixture(t)
	f.enrolments.ends["student-1"] = fakeEnrolmentEnd{enrolled: true}
	f.invitations.add(usedInvitation("student-1"))
	f.invitations.add(&domain.Invitation{ID: "inv-2", CourseID: "course-1", Token: "b", TimeExpiration: testNow.Add(-time.Minute)})
	f.invitations.add(&domain.Invitation{ID: "inv-3", CourseID: "course-1", Token: "c", TimeExpiration: testNow.Add(time.Hour)})

	views, err := f.svc.ListInvitations(context.Background(), teacherRC(), "course-1")
	require.NoError(t, err)
	require.Len(t, views, 3)

	assert.Equal(t, domain.StatusUsed, views[0].Status)
	assert.Equal(t, "Accepted", views[0].StatusLabel)
	require.NotNil(t, views[0].UsedBy)
	assert.Equal(t, "Sam Student", views[0].UsedBy.FullName)

	assert.Equal(t, domain.StatusExpired, views[1].Status)
	assert.Equal(t, "Expired", views[1].StatusLabel)
	assert.Nil(t, views[1].UsedBy)

	assert.Equal(t, domain.StatusActive, views[2].Status)
	assert.Equal(t, "Active", views[2].StatusLabel)

	rc := teacherRC()
	rc.ActorID = "student-1"
	_, err = f.svc.ListInvitations(context.Background(), rc, "course-1")
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func activeInvitation() *domain.Invitation {
	return &domain.Invitation{
		ID: "inv-1", CourseID: "course-1", Email: "student@example.com", Token: "tok",
		RoleID: "role-student", InviterID: "teacher-1", NotifyInviter: true,
		TimeSent: testNow.Add(-time.Hour), TimeExpiration: testNow.Add(time.Hour), DaysExpire: intPtr(3),
	}
}

func studentRC() domain.RequestContext {
	return domain.RequestContext{ActorID: "student-1", Now: testNow}
}

func TestViewInvitation(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(activeInvitation())

	landing, err := f.svc.ViewInvitation(context.Background(), domain.RequestContext{Now: testNow}, "tok")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", landing.Invitation.ID)
	assert.Equal(t, "Biology 101", landing.Course.FullName)
	assert.Equal(t, domain.StatusActive, landing.Status)
	assert.Equal(t, "Student", landing.RoleName)
	assert.Equal(t, "Ada Lovelace", landing.InviterName)
	assert.Equal(t, []domain.AuditEventName{domain.EventInvitationViewed}, f.audit.names())

	_, err = f.svc.ViewInvitation(context.Background(), studentRC(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcceptInvitation(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(activeInvitation())

	inv, err := f.svc.AcceptInvitation(context.Background(), studentRC(), "tok")
	require.NoError(t, err)
	assert.True(t, inv.TokenUsed)
	require.NotNil(t, inv.UserID)
	assert.Equal(t, "student-1", *inv.UserID)
	require.NotNil(t, inv.TimeUsed)
	assert.Equal(t, testNow, *inv.TimeUsed)

	require.Len(t, f.enrolments.enrolled, 1)
	assert.Equal(t, time.Date(2024, 1, 13, 23, 59, 59, 0, time.UTC), f.enrolments.enrolled[0].TimeEnd)
	assert.Equal(t, []domain.AuditEventName{domain.EventInvitationAccepted}, f.audit.names())

	require.Len(t, f.email.notices, 1)
	notice := f.email.notices[0]
	assert.Equal(t, "teacher@example.com", notice.Email)
	assert.Equal(t, "Invitation to Biology 101 accepted", notice.Subject)
	assert.True(t, notice.Accepted)
	assert.Equal(t, "https://lms.example.com/courses/course-1/invitations", notice.HistoryURL)

	_, err = f.svc.AcceptInvitation(context.Background(), studentRC(), "tok")
	require.ErrorIs(t, err, domain.ErrInvitationUsed)
	assert.Len(t, f.enrolments.enrolled, 1)
}

func TestAcceptInvitation_Errors(t *testing.T) {
	f := newInvitationFixture(t)
	expired := activeInvitation()
	expired.TimeExpiration = testNow.Add(-time.Second)
	f.invitations.add(expired)
	noInstance := activeInvitation()
	noInstance.ID, noInstance.Token, noInstance.CourseID = "inv-2", "tok-2", "course-2"
	f.invitations.add(noInstance)

	ctx := context.Background()
	_, err := f.svc.AcceptInvitation(ctx, domain.RequestContext{Now: testNow}, "tok")
	require.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = f.svc.AcceptInvitation(ctx, studentRC(), "tok")
	require.ErrorIs(t, err, domain.ErrInvitationExpired)

	_, err = f.svc.AcceptInvitation(ctx, studentRC(), "tok-2")
	require.ErrorIs(t, err, domain.ErrNoInstanceFound)
	assert.False(t, f.invitations.byID["inv-2"].TokenUsed)

	_, err = f.svc.AcceptInvitation(ctx, studentRC(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.invitations.writes)
	assert.Empty(t, f.audit.events)
}

func TestAcceptInvitation_EnrolmentFailureKeepsToken(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(activeInvitation())
	f.enrolments.err = errors.New("db down")

	_, err := f.svc.AcceptInvitation(context.Background(), studentRC(), "tok")
	require.Error(t, err)
	inv := f.invitations.byID["inv-1"]
	assert.False(t, inv.TokenUsed)
	assert.Nil(t, inv.UserID)
	assert.Empty(t, f.audit.events)
	assert.Empty(t, f.email.notices)

	f.enrolments.err = nil
	accepted, err := f.svc.AcceptInvitation(context.Background(), studentRC(), "tok")
	require.NoError(t, err)
	assert.True(t, accepted.TokenUsed)
	require.Len(t, f.enrolments.enrolled, 1)
	assert.Equal(t, "student-1", f.enrolments.enrolled[0].UserID)
}

func TestRejectInvitation(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(activeInvitation())

	require.NoError(t, f.svc.RejectInvitation(context.Background(), studentRC(), "tok"))
	assert.Zero(t, f.invitations.writes)
	assert.False(t, f.invitations.byID["inv-1"].TokenUsed)
	assert.Equal(t, []domain.AuditEventName{domain.EventInvitationRejected}, f.audit.names())
	require.Len(t, f.email.notices, 1)
	assert.False(t, f.email.notices[0].Accepted)
	assert.Equal(t, "Invitation to Biology 101 declined", f.email.notices[0].Subject)
}

func TestRevokeInvitation(t *testing.T) {
	f := newInvitationFixture(t)
	f.invitations.add(activeInvitation())

	require.NoError(t, f.svc.RevokeInvitation(context.Background(), teacherRC(), "inv-1"))
	assert.NotContains(t, f.invitations.byID, "inv-1")
	require.Len(t, f.audit.events, 1)
	e := f.audit.events[0]
	assert.Equal(t, domain.EventInvitationDeleted, e.Name)
	assert.Equal(t, map[string]string{"status": "Active", "role": "Student", "expiration": "January 10, 2024"}, e.Other)
}

func TestRevokeInvitation_Errors(t *testing.T) {
	f := newInvitationFixture(t)
	used := usedInvitation("student-1")
	used.ID = "inv-used"
	f.invitations.add(used)
	ctx := context.Background()

	rc := teacherRC()
	rc.ActorID = "student-1"
	require.ErrorIs(t, f.svc.RevokeInvitation(ctx, rc, "inv-used"), domain.ErrPermissionDenied)

	rc = teacherRC()
	rc.CourseID = "course-2"
	require.ErrorIs(t, f.svc.RevokeInvitation(ctx, rc, "inv-used"), domain.ErrNotFound)

	require.ErrorIs(t, f.svc.RevokeInvitation(ctx, teacherRC(), "inv-used"), domain.ErrInvitationUsed)
	require.ErrorIs(t, f.svc.RevokeInvitation(ctx, teacherRC(), "missing"), domain.ErrNotFound)
	assert.Zero(t, f.invitations.writes)
}

package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"enrolinvitation/internal/delivery/http/helpers"
	"enrolinvitation/internal/delivery/http/middleware"
	"enrolinvitation/internal/domain"
)

// SendInvitationRequest is the request body for POST /courses/{courseID}/invitations.
type SendInvitationRequest struct {
	Email         string `json:"email" validate:"required,email"`
	RoleID        string `json:"role_id" validate:"required"`
	Subject       string `json:"subject" validate:"required,max=255"`
	Message       string `json:"message" validate:"max=10000"`
	NotifyInviter bool   `json:"notify_inviter"`
	ShowFromEmail bool   `json:"show_from_email"`
	DaysExpire    *int   `json:"days_expire" validate:"omitempty,min=1,max=3650"`
}

// ResendInvitationRequest is the request body for POST /courses/{courseID}/invitations/{invitationID}/resend.
// The role and enrolment duration of the original invitation are kept.
type ResendInvitationRequest struct {
	Subject       string `json:"subject" validate:"required,max=255"`
	Message       string `json:"message" validate:"max=10000"`
	NotifyInviter bool   `json:"notify_inviter"`
	ShowFromEmail bool   `json:"show_from_email"`
}

// SendInvitationResponse is the response body for send and resend.
type SendInvitationResponse struct {
	CourseID string `json:"course_id"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

// SendInvitationSuccessResponse is the success response envelope for send and resend.
type SendInvitationSuccessResponse struct {
	Data  SendInvitationResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListInvitationsSuccessResponse is the success response envelope for GET /courses/{courseID}/invitations (200).
type ListInvitationsSuccessResponse struct {
	Data  []*domain.InvitationView `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// InvitationLandingSuccessResponse is the success response envelope for GET /invitations/{token} (200).
type InvitationLandingSuccessResponse struct {
	Data  *domain.InvitationLanding `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// AcceptInvitationSuccessResponse is the success response envelope for POST /invitations/{token}/accept (200).
type AcceptInvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// StatusResponse carries a single status word.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusSuccessResponse is the success envelope for endpoints that only report a status.
type StatusSuccessResponse struct {
	Data  StatusResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationManager
	Now     func() time.Time
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationManager) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
		Now:     time.Now,
	}
}

func (c *InvitationController) requestContext(r *http.Request) domain.RequestContext {
	userID, _ := middleware.UserIDFromContext(r.Context())
	return domain.RequestContext{
		ActorID:  userID,
		CourseID: r.PathValue("courseID"),
		Now:      c.Now(),
	}
}

// writeError maps service errors onto the API envelope. Unknown errors are logged and reported as 500.
func (c *InvitationController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
	case errors.Is(err, domain.ErrPermissionDenied):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvitationUsed):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrNoInstanceFound):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvitationExpired):
		helpers.WriteJSONError(w, http.StatusGone, helpers.ErrCodeGone, err.Error())
	case errors.Is(err, domain.ErrDeliveryFailed):
		c.Logger.WarnContext(r.Context(), "invitation saved but not delivered", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, "invitation saved but the email could not be delivered")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}

// ListInvitations godoc
// @Summary List invitations for a course
// @Description Returns every invitation of the course with its derived status, who accepted it and when their access ends. Requires the enrol capability in the course.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course ID (UUID)"
// @Success 200 {object} controllers.ListInvitationsSuccessResponse "data contains the invitation history"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /courses/{courseID}/invitations [get]
func (c *InvitationController) ListInvitations(w http.ResponseWriter, r *http.Request) {
	rc := c.requestContext(r)
	if rc.ActorID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	views, err := c.Service.ListInvitations(r.Context(), rc, rc.CourseID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, views)
}

// SendInvitation godoc
// @Summary Invite someone to a course
// @Description Creates an invitation with a fresh token and emails the accept link. The authenticated user becomes the inviter. Requires the enrol capability in the course.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course ID (UUID)"
// @Param invitation body SendInvitationRequest true "Invitation data"
// @Success 201 {object} controllers.SendInvitationSuccessResponse "data contains the invited email"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway (saved, email not delivered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /courses/{courseID}/invitations [post]
func (c *InvitationController) SendInvitation(w http.ResponseWriter, r *http.Request) {
	var req SendInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rc := c.requestContext(r)
	if rc.ActorID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	input := &domain.SendInvitationInput{
		CourseID:      rc.CourseID,
		Email:         strings.TrimSpace(req.Email),
		RoleID:        req.RoleID,
		Subject:       req.Subject,
		Message:       req.Message,
		NotifyInviter: req.NotifyInviter,
		ShowFromEmail: req.ShowFromEmail,
		DaysExpire:    req.DaysExpire,
	}
	if err := c.Service.SendInvitation(r.Context(), rc, input, false); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, SendInvitationResponse{
		CourseID: rc.CourseID,
		Email:    strings.ToLower(input.Email),
		Status:   "sent",
	})
}

// ResendInvitation godoc
// @Summary Resend an invitation
// @Description Re-sends an unused invitation with the same token, a refreshed expiration and a reminder subject. Requires the enrol capability in the course.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course ID (UUID)"
// @Param invitationID path string true "Invitation ID (UUID)"
// @Param invitation body ResendInvitationRequest true "Updated email content"
// @Success 200 {object} controllers.SendInvitationSuccessResponse "data contains the invited email"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already accepted)"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway (saved, email not delivered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /courses/{courseID}/invitations/{invitationID}/resend [post]
func (c *InvitationController) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("invitationID")
	if invitationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing invitationID")
		return
	}
	var req ResendInvitationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	rc := c.requestContext(r)
	if rc.ActorID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	target, err := c.Service.GetInvitation(r.Context(), rc, invitationID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	input := &domain.SendInvitationInput{
		CourseID:      rc.CourseID,
		Email:         target.Email,
		Subject:       req.Subject,
		Message:       req.Message,
		NotifyInviter: req.NotifyInviter,
		ShowFromEmail: req.ShowFromEmail,
		Token:         target.Token,
	}
	if err := c.Service.SendInvitation(r.Context(), rc, input, true); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SendInvitationResponse{
		CourseID: rc.CourseID,
		Email:    target.Email,
		Status:   "resent",
	})
}

// RevokeInvitation godoc
// @Summary Revoke an invitation
// @Description Deletes an unused invitation so its link stops working. Requires the enrol capability in the course.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param courseID path string true "Course ID (UUID)"
// @Param invitationID path string true "Invitation ID (UUID)"
// @Success 200 {object} controllers.StatusSuccessResponse "data.status: revoked"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already accepted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /courses/{courseID}/invitations/{invitationID} [delete]
func (c *InvitationController) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	invitationID := r.PathValue("invitationID")
	if invitationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing invitationID")
		return
	}
	rc := c.requestContext(r)
	if rc.ActorID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.RevokeInvitation(r.Context(), rc, invitationID); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "revoked"})
}

// ViewInvitation godoc
// @Summary Show an invitation
// @Description Landing page data for an invitation link: the course, the offered role, the inviter and the current status. Authentication is optional.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} controllers.InvitationLandingSuccessResponse "data contains the landing details"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{token} [get]
func (c *InvitationController) ViewInvitation(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	landing, err := c.Service.ViewInvitation(r.Context(), c.requestContext(r), token)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, landing)
}

// AcceptInvitation godoc
// @Summary Accept an invitation
// @Description Redeems the token for the authenticated user and enrols them in the course with the invited role.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} controllers.AcceptInvitationSuccessResponse "data contains the redeemed invitation"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already used or no enrolment instance)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (expired)"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{token}/accept [post]
func (c *InvitationController) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	rc := c.requestContext(r)
	if rc.ActorID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	inv, err := c.Service.AcceptInvitation(r.Context(), rc, token)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// RejectInvitation godoc
// @Summary Decline an invitation
// @Description Records that the recipient declined. The invitation itself is left unchanged. Authentication is optional.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} controllers.StatusSuccessResponse "data.status: rejected"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already used)"
// @Failure 410 {object} helpers.APIResponse "error.code: gone (expired)"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invitations/{token}/reject [post]
func (c *InvitationController) RejectInvitation(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	if err := c.Service.RejectInvitation(r.Context(), c.requestContext(r), token); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "rejected"})
}

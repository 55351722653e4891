package handlers

import (
	"net/http"

	"minbar/internal/models"
	"minbar/internal/services"
	"minbar/internal/utils/helpers"

	"github.com/gorilla/mux"
)

// resetRequestedMessage is returned whether or not the account exists.
const resetRequestedMessage = "If the account exists, a password reset email has been sent."

type PasswordHandler struct {
	svc *services.PasswordService
}

func NewPasswordHandler(svc *services.PasswordService) *PasswordHandler {
	return &PasswordHandler{svc: svc}
}

// IssueForUser godoc
// @Summary Send a password reset email to a user
// @Tags password
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.Response
// @Failure 500 {object} helpers.Response
// @Router /api/users/{id}/password-reset [post]
func (h *PasswordHandler) IssueForUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := h.svc.IssueForUser(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, messageResponse{Message: resetRequestedMessage})
}

// Forgot godoc
// @Summary Request a password reset by email
// @Tags password
// @Accept json
// @Produce json
// @Param input body models.ForgotPasswordRequest true "Account email"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.Response
// @Failure 500 {object} helpers.Response
// @Router /api/password/forgot [post]
func (h *PasswordHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.IssueForEmail(r.Context(), req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, messageResponse{Message: resetRequestedMessage})
}

// Verify godoc
// @Summary Check a password reset link
// @Tags password
// @Produce json
// @Param token path string true "Reset token"
// @Success 200 {object} models.ResetTokenStatus
// @Failure 400 {object} helpers.Response
// @Router /api/users/password-reset/{token} [get]
func (h *PasswordHandler) Verify(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Verify(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Redeem godoc
// @Summary Set a new password using a reset token
// @Tags password
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param input body models.RedeemPasswordRequest true "New password"
// @Success 200 {object} messageResponse
// @Failure 400 {object} helpers.Response
// @Router /api/users/password-reset/{token} [post]
func (h *PasswordHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req models.RedeemPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.svc.Redeem(r.Context(), mux.Vars(r)["token"], &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, messageResponse{Message: "password updated"})
}

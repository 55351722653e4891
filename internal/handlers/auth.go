package handlers

import (
	"net/http"
	"time"

	"minbar/internal/logger"
	"minbar/internal/models"
	"minbar/internal/reqctx"
	"minbar/internal/services"
	"minbar/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  *services.AuthService
	cookieName   string
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieName: cookieName, secureCookie: secureCookie}
}

type sessionResponse struct {
	Session *models.Session `json:"session"`
}

// Register godoc
// @Summary Register a back-office account
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.RegisterRequest true "Registration data"
// @Success 201 {object} models.RegisterResponse
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	u, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusCreated, models.RegisterResponse{ID: u.ID, Email: u.Email})
}

// Login godoc
// @Summary Sign in with email and password
// @Description Sets the session cookie and also returns the token for Bearer use.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} helpers.Response
// @Failure 401 {object} helpers.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, exp, id, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	logger.WithCtx(r.Context()).Info("Signed in", zap.Int64("uid", id.ID))
	helpers.JSON(w, http.StatusOK, models.LoginResponse{Token: token, User: id})
}

// Logout godoc
// @Summary Sign out
// @Description Clears the session cookie. Tokens are stateless and stay valid until they expire.
// @Tags auth
// @Produce json
// @Success 200 {object} messageResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	helpers.JSON(w, http.StatusOK, messageResponse{Message: "signed out"})
}

// Session godoc
// @Summary Current session
// @Description Returns the decoded session, or null when the request is anonymous.
// @Tags auth
// @Produce json
// @Success 200 {object} sessionResponse
// @Router /api/auth/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, sessionResponse{Session: reqctx.GetSession(r.Context())})
}

// Me godoc
// @Summary Current back-office user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} helpers.Response
// @Router /api/admin/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := reqctx.GetSession(r.Context())
	if sess == nil {
		helpers.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	u, err := h.authService.GetUser(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, u)
}

// UpdateMe godoc
// @Summary Update the current back-office user
// @Description Changes name or email. A new password requires currentPassword.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body models.UpdateProfileRequest true "Changes"
// @Success 200 {object} models.User
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/me [patch]
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	sess := reqctx.GetSession(r.Context())
	if sess == nil {
		helpers.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req models.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	u, err := h.authService.UpdateProfile(r.Context(), sess.UserID, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, u)
}

// ListUsers godoc
// @Summary List back-office users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Email or name filter"
// @Success 200 {object} models.Page[models.User]
// @Failure 403 {object} helpers.Response
// @Router /api/admin/users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.authService.ListUsers(r.Context(), queryInt(r, "page"), queryInt(r, "page_size"), r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

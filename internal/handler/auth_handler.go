package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IgnacyBerent/biomed-kb-api/internal/middleware"
	"github.com/IgnacyBerent/biomed-kb-api/internal/models"
	"github.com/IgnacyBerent/biomed-kb-api/internal/service"
	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/response"
)

// AuthHandler wires the access-gate endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Setup godoc
// @Summary Store the shared credential
// @Description One-time setup of the shared password; fails once a credential exists
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.SetupRequest true "Setup payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/setup [post]
func (h *AuthHandler) Setup(c *gin.Context) {
	var req models.SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid setup payload"))
		return
	}

	if err := h.service.SetupCredential(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Login godoc
// @Summary Authenticate against the shared credential
// @Description Returns a session token carrying the submitter's name
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res)
}

// Session godoc
// @Summary Get the current session
// @Description Returns the authenticated submitter's display name
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	claims := middleware.SessionClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"full_name": claims.FullName, "expires_at": claims.ExpiresAt})
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qpshare/qpshare/internal/app/models/dto"
	"github.com/qpshare/qpshare/internal/app/services"
	"github.com/qpshare/qpshare/internal/middleware"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
	"github.com/rs/zerolog"
)

// AdminController handles the moderation console endpoints
type AdminController struct {
	authService       *services.AuthService
	moderationService *services.ModerationService
	logger            zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(authService *services.AuthService, moderationService *services.ModerationService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		authService:       authService,
		moderationService: moderationService,
		logger:            logger,
	}
}

// Login handles the admin console login
// @Summary Admin login
// @Description Checks the credentials against the configured allow-list and returns a signed session token. The token goes into the X-Admin-Auth header on every admin call.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminAuthRequest true "Admin credentials"
// @Success 200 {object} dto.AdminAuthResponse
// @Failure 401 {object} dto.AdminAuthResponse "Invalid credentials"
// @Router /admin/auth [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req dto.AdminAuthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.AdminAuthResponse{Success: false, Error: "username and password are required"})
		return
	}

	token, err := c.authService.AdminLogin(req.Username, req.Password)
	if err != nil {
		c.logger.Warn().Str("username", req.Username).Msg("Admin login rejected")
		ctx.JSON(http.StatusUnauthorized, dto.AdminAuthResponse{Success: false, Error: "invalid credentials"})
		return
	}

	ctx.JSON(http.StatusOK, dto.AdminAuthResponse{Success: true, Token: token})
}

// ListPapers handles the moderation console snapshot
// @Summary List all papers with stats
// @Description Returns every paper regardless of approval state, newest first, with counts recomputed from the snapshot.
// @Tags admin
// @Produce json
// @Security AdminAuth
// @Success 200 {object} dto.AdminPapersResponse
// @Failure 401 {object} dto.ErrorResponse "Admin authentication required"
// @Router /admin/papers [get]
func (c *AdminController) ListPapers(ctx *gin.Context) {
	snapshot, err := c.moderationService.Snapshot(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, snapshot)
}

// Moderate handles approve, reject and unapprove
// @Summary Apply a moderation action
// @Description Applies approve, reject or unapprove to one paper. Reject permanently deletes the record.
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminAuth
// @Param paperId path string true "Paper ID"
// @Param request body dto.ModerationActionRequest true "The action to apply"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown action"
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /admin/papers/{paperId} [post]
func (c *AdminController) Moderate(ctx *gin.Context) {
	id, ok := c.paperID(ctx)
	if !ok {
		return
	}

	var req dto.ModerationActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("action is required"))
		return
	}

	if err := c.moderationService.Apply(ctx, id, req.Action); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

// Edit handles the admin field patch
// @Summary Edit a paper's metadata
// @Description Overwrites the editable fields of one paper. With approve=true the edit and the approval run as a single transaction.
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminAuth
// @Param paperId path string true "Paper ID"
// @Param request body dto.PaperPatch true "The field patch"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /admin/papers/{paperId} [put]
func (c *AdminController) Edit(ctx *gin.Context) {
	id, ok := c.paperID(ctx)
	if !ok {
		return
	}

	var patch dto.PaperPatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("subject, university, degree and year are required"))
		return
	}

	var err error
	if patch.Approve {
		err = c.moderationService.EditAndApprove(ctx, id, patch)
	} else {
		err = c.moderationService.EditFields(ctx, id, patch)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
}

func (c *AdminController) paperID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("paperId"))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("invalid paper ID"))
		return uuid.Nil, false
	}
	return id, true
}

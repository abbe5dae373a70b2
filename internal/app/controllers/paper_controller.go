// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/qpshare/qpshare/internal/app/models/dto"
	"github.com/qpshare/qpshare/internal/app/services"
	"github.com/qpshare/qpshare/internal/middleware"
	"github.com/rs/zerolog"
)

// PaperController handles the public catalog surface: search, detail, upload
type PaperController struct {
	searchService *services.SearchService
	uploadService *services.UploadService
	logger        zerolog.Logger
}

// NewPaperController creates a new PaperController
func NewPaperController(searchService *services.SearchService, uploadService *services.UploadService, logger zerolog.Logger) *PaperController {
	return &PaperController{
		searchService: searchService,
		uploadService: uploadService,
		logger:        logger,
	}
}

// Search handles the public catalog search
// @Summary Search approved papers
// @Description Searches the approved catalog with an optional free-text term and per-field filters. Returns the matches with facet values for the filter dropdowns.
// @Tags papers
// @Produce json
// @Param search query string false "Free-text term matched against university, degree, subject and year"
// @Param university query string false "Exact university filter, case-insensitive"
// @Param degree query string false "Exact degree filter, case-insensitive"
// @Param year query string false "Exact year filter"
// @Param subject query string false "Exact subject filter, case-insensitive"
// @Success 200 {object} dto.APIResponse{data=dto.SearchPapersResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /papers [get]
func (c *PaperController) Search(ctx *gin.Context) {
	query := services.Query{
		Search: ctx.Query("search"),
		Filters: services.Filters{
			University: ctx.Query("university"),
			Degree:     ctx.Query("degree"),
			Year:       ctx.Query("year"),
			Subject:    ctx.Query("subject"),
		},
	}

	resp, err := c.searchService.Search(ctx, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// GetPaper handles a single-paper lookup
// @Summary Get one approved paper
// @Description Returns a single approved paper. Pending and unknown IDs both return 404.
// @Tags papers
// @Produce json
// @Param id path string true "Paper ID"
// @Success 200 {object} dto.APIResponse{data=models.Paper}
// @Failure 404 {object} dto.ErrorResponse "Paper not found"
// @Router /papers/{id} [get]
func (c *PaperController) GetPaper(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid paper ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	paper, err := c.searchService.GetApproved(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(paper))
}

// Upload handles a paper submission
// @Summary Submit a paper for review
// @Description Stores the PDF and creates a pending catalog record. The paper stays invisible to the public surface until an admin approves it.
// @Tags papers
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "The question paper PDF"
// @Param subject formData string true "Subject"
// @Param university formData string true "University"
// @Param degree formData string true "Degree"
// @Param year formData int true "Exam year"
// @Param examType formData string false "Exam type (mid-sem, end-sem, term-exam)"
// @Param academicYear formData string false "Academic year label, e.g. 2023-24"
// @Success 201 {object} dto.APIResponse{data=models.Paper} "Submitted, pending review"
// @Failure 400 {object} dto.ErrorResponse "Missing file, wrong type or invalid metadata"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Storage or catalog failure"
// @Router /papers [post]
func (c *PaperController) Upload(ctx *gin.Context) {
	in := services.UploadInput{}

	if fileHeader, err := ctx.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to open uploaded file")
			middleware.HandleAPIError(ctx, err)
			return
		}
		defer file.Close()

		in.Filename = fileHeader.Filename
		in.Size = fileHeader.Size
		in.Body = file
	}

	// Metadata checks live in the service so the precondition order stays
	// the same regardless of which part of the form is broken. A failed
	// bind just leaves zero values for the validator to flag.
	var req dto.UploadPaperRequest
	_ = ctx.ShouldBind(&req)
	in.Subject = req.Subject
	in.University = req.University
	in.Degree = req.Degree
	in.Year = req.Year
	in.ExamType = req.ExamType
	in.AcademicYear = req.AcademicYear

	paper, err := c.uploadService.Upload(ctx, middleware.UserIDFromContext(ctx), in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(paper))
}

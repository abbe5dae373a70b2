package dto

import (
	"github.com/qpshare/qpshare/internal/app/models"
)

// UploadPaperRequest carries the metadata of a paper submission.
// The PDF itself arrives as the multipart "file" part.
type UploadPaperRequest struct {
	Subject      string `form:"subject" binding:"required"`
	University   string `form:"university" binding:"required"`
	Degree       string `form:"degree" binding:"required"`
	Year         int    `form:"year" binding:"required"`
	ExamType     string `form:"examType"`
	AcademicYear string `form:"academicYear"`
}

// PaperPatch is the admin field patch applied by the edit transitions.
// Approve selects the composite edit-then-approve transition.
type PaperPatch struct {
	Subject      string `json:"subject" binding:"required"`
	University   string `json:"university" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	Year         int    `json:"year" binding:"required"`
	ExamType     string `json:"examType"`
	AcademicYear string `json:"academicYear"`
	Approve      bool   `json:"approve"`
}

// ModerationActionRequest selects a moderation transition for one paper.
// PaperID is accepted for compatibility with the previous contract but the
// path parameter is authoritative; a mismatching body value is ignored.
type ModerationActionRequest struct {
	PaperID string `json:"paperId"`
	Action  string `json:"action" binding:"required"`
}

// PaperStats are the derived catalog statistics, recomputed from a fresh
// snapshot after every mutation. Rejected papers are deleted outright, so
// the rejected count stays a zero placeholder.
type PaperStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// AdminPapersResponse is the moderation console snapshot
type AdminPapersResponse struct {
	Papers []models.Paper `json:"papers"`
	Stats  PaperStats     `json:"stats"`
}

// Facets are the distinct values offered as filter choices, derived from
// the approved set. Years are sorted most recent first.
type Facets struct {
	Universities []string `json:"universities"`
	Degrees      []string `json:"degrees"`
	Years        []int    `json:"years"`
	Subjects     []string `json:"subjects"`
}

// SearchPapersResponse is the public search surface payload
type SearchPapersResponse struct {
	Papers []models.Paper `json:"papers"`
	Total  int            `json:"total"`
	Facets Facets         `json:"facets"`
}

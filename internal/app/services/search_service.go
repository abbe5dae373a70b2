package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/app/models/dto"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
	"github.com/qpshare/qpshare/internal/pkg/logger"
)

// Filters are the per-field constraints of a search. Empty means no
// constraint; matching is case-insensitive exact equality. Year is carried as
// the raw query string and compared against the decimal form of the stored
// year.
type Filters struct {
	University string
	Degree     string
	Year       string
	Subject    string
}

// Query is one public search request
type Query struct {
	Search string
	Filters
}

// approvedLister is the slice of the paper repository the search engine needs
type approvedLister interface {
	ListApproved(ctx context.Context) ([]models.Paper, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Paper, error)
}

// SearchService serves the public read surface over the approved set
type SearchService struct {
	papers approvedLister
	cache  *ApprovedCache
}

// NewSearchService creates a new SearchService
func NewSearchService(papers approvedLister, cache *ApprovedCache) *SearchService {
	return &SearchService{papers: papers, cache: cache}
}

// Search applies the free-text term and the field filters over the approved
// set and returns the matches together with facets derived from the whole
// approved set.
func (s *SearchService) Search(ctx context.Context, query Query) (*dto.SearchPapersResponse, error) {
	searchTotal.Inc()
	timer := time.Now()
	defer func() {
		searchDuration.Observe(time.Since(timer).Seconds())
	}()

	approved, err := s.approvedSet(ctx)
	if err != nil {
		return nil, err
	}

	matched := FilterPapers(approved, query.Search, query.Filters)

	return &dto.SearchPapersResponse{
		Papers: matched,
		Total:  len(matched),
		Facets: DeriveFacets(approved),
	}, nil
}

// GetApproved returns one approved paper; unapproved and unknown IDs are
// indistinguishable to the public surface.
func (s *SearchService) GetApproved(ctx context.Context, id uuid.UUID) (*models.Paper, error) {
	paper, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if paper == nil || !paper.Approved {
		return nil, apperrors.ErrPaperNotFound
	}
	return paper, nil
}

// InvalidateCache drops the approved-set snapshot. Every successful catalog
// mutation calls this so settled reads reflect canonical data.
func (s *SearchService) InvalidateCache() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func (s *SearchService) approvedSet(ctx context.Context) ([]models.Paper, error) {
	if s.cache != nil {
		if papers, ok := s.cache.Get(); ok {
			return papers, nil
		}
	}

	papers, err := s.papers.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(papers)
	}
	logger.Debug().Int("papers", len(papers)).Msg("Refreshed approved snapshot")
	return papers, nil
}

// FilterPapers applies the free-text term and the field filters, preserving
// input order. An empty term and empty filters return the input unchanged.
func FilterPapers(papers []models.Paper, search string, filters Filters) []models.Paper {
	term := strings.ToLower(strings.TrimSpace(search))

	matched := make([]models.Paper, 0, len(papers))
	for _, p := range papers {
		if term != "" && !matchesTerm(p, term) {
			continue
		}
		if !equalsFold(filters.University, p.University) {
			continue
		}
		if !equalsFold(filters.Degree, p.Degree) {
			continue
		}
		if !equalsFold(filters.Subject, p.Subject) {
			continue
		}
		if filters.Year != "" && filters.Year != strconv.Itoa(p.Year) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// matchesTerm reports whether the lowercased term is a substring of any
// searchable field, the year included in its decimal form.
func matchesTerm(p models.Paper, term string) bool {
	return strings.Contains(strings.ToLower(p.University), term) ||
		strings.Contains(strings.ToLower(p.Degree), term) ||
		strings.Contains(strings.ToLower(p.Subject), term) ||
		strings.Contains(strconv.Itoa(p.Year), term)
}

// equalsFold treats an empty filter as no constraint
func equalsFold(filter, value string) bool {
	return filter == "" || strings.EqualFold(filter, value)
}

// DeriveFacets collects the distinct non-empty values offered as filter
// choices. String facets are sorted alphabetically, years most recent first.
func DeriveFacets(papers []models.Paper) dto.Facets {
	universities := make(map[string]struct{})
	degrees := make(map[string]struct{})
	subjects := make(map[string]struct{})
	years := make(map[int]struct{})

	for _, p := range papers {
		if p.University != "" {
			universities[p.University] = struct{}{}
		}
		if p.Degree != "" {
			degrees[p.Degree] = struct{}{}
		}
		if p.Subject != "" {
			subjects[p.Subject] = struct{}{}
		}
		years[p.Year] = struct{}{}
	}

	facets := dto.Facets{
		Universities: sortedKeys(universities),
		Degrees:      sortedKeys(degrees),
		Subjects:     sortedKeys(subjects),
		Years:        make([]int, 0, len(years)),
	}
	for y := range years {
		facets.Years = append(facets.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(facets.Years)))

	return facets
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/qpshare/qpshare/internal/app/models"
	"github.com/qpshare/qpshare/internal/pkg/apperrors"
)

func paper(subject, university, degree string, year int, approved bool) models.Paper {
	return models.Paper{
		ID:         uuid.New(),
		Subject:    subject,
		University: university,
		Degree:     degree,
		Year:       year,
		Approved:   approved,
	}
}

func approvedSet() []models.Paper {
	return []models.Paper{
		paper("Operating Systems", "Delhi University", "B.Tech", 2022, true),
		paper("Microeconomics", "Mumbai University", "B.Com", 2021, true),
		paper("Data Structures", "Delhi University", "B.Sc", 2022, true),
	}
}

type stubPaperReader struct {
	papers    []models.Paper
	byID      map[uuid.UUID]*models.Paper
	listCalls int
	err       error
}

func (s *stubPaperReader) ListApproved(ctx context.Context) ([]models.Paper, error) {
	s.listCalls++
	return s.papers, s.err
}

func (s *stubPaperReader) GetByID(ctx context.Context, id uuid.UUID) (*models.Paper, error) {
	return s.byID[id], s.err
}

func TestFilterPapersNoConstraintsReturnsAll(t *testing.T) {
	papers := approvedSet()

	got := FilterPapers(papers, "", Filters{})

	if !reflect.DeepEqual(got, papers) {
		t.Fatalf("expected the full set back, got %d of %d", len(got), len(papers))
	}
}

func TestFilterPapersIsIdempotent(t *testing.T) {
	papers := approvedSet()
	filters := Filters{University: "delhi university"}

	once := FilterPapers(papers, "", filters)
	twice := FilterPapers(once, "", filters)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second application changed the result: %v vs %v", once, twice)
	}
}

func TestFilterPapersReturnsSubsetInOrder(t *testing.T) {
	papers := approvedSet()

	got := FilterPapers(papers, "delhi", Filters{})

	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Subject != "Operating Systems" || got[1].Subject != "Data Structures" {
		t.Fatalf("input order not preserved: %q, %q", got[0].Subject, got[1].Subject)
	}
}

func TestFilterPapersFreeTextMatchesYear(t *testing.T) {
	got := FilterPapers(approvedSet(), "2022", Filters{})

	if len(got) != 2 {
		t.Fatalf("expected the two 2022 papers, got %d", len(got))
	}
	for _, p := range got {
		if p.Year != 2022 {
			t.Errorf("unexpected match with year %d", p.Year)
		}
	}
}

func TestFilterPapersFieldFiltersAreCaseInsensitive(t *testing.T) {
	got := FilterPapers(approvedSet(), "", Filters{
		University: "DELHI UNIVERSITY",
		Degree:     "b.tech",
	})

	if len(got) != 1 || got[0].Subject != "Operating Systems" {
		t.Fatalf("expected only the B.Tech paper, got %v", got)
	}
}

func TestFilterPapersYearFilterIsExact(t *testing.T) {
	papers := append(approvedSet(), paper("History", "Delhi University", "B.A", 202, true))

	got := FilterPapers(papers, "", Filters{Year: "2022"})

	if len(got) != 2 {
		t.Fatalf("expected exact-year matches only, got %d", len(got))
	}
}

func TestFilterPapersClearingFiltersRestoresFullSet(t *testing.T) {
	papers := approvedSet()

	narrowed := FilterPapers(papers, "", Filters{Subject: "Microeconomics"})
	if len(narrowed) != 1 {
		t.Fatalf("expected 1 match, got %d", len(narrowed))
	}

	restored := FilterPapers(papers, "", Filters{})
	if !reflect.DeepEqual(restored, papers) {
		t.Fatal("clearing the filters did not restore the full set")
	}
}

func TestDeriveFacetsDistinctAndYearsDescending(t *testing.T) {
	facets := DeriveFacets(approvedSet())

	if len(facets.Universities) != 2 {
		t.Errorf("expected 2 distinct universities, got %v", facets.Universities)
	}
	if len(facets.Degrees) != 3 {
		t.Errorf("expected 3 distinct degrees, got %v", facets.Degrees)
	}
	if !reflect.DeepEqual(facets.Years, []int{2022, 2021}) {
		t.Errorf("expected years sorted descending, got %v", facets.Years)
	}
}

func TestDeriveFacetsSkipsEmptyValues(t *testing.T) {
	papers := []models.Paper{
		{Subject: "Algebra", University: "", Degree: "B.Sc", Year: 2020},
	}

	facets := DeriveFacets(papers)

	if len(facets.Universities) != 0 {
		t.Fatalf("empty university leaked into facets: %v", facets.Universities)
	}
}

func TestSearchServesFromSnapshotUntilInvalidated(t *testing.T) {
	reader := &stubPaperReader{papers: approvedSet()}
	svc := NewSearchService(reader, NewApprovedCache(time.Minute))

	for i := 0; i < 3; i++ {
		if _, err := svc.Search(context.Background(), Query{}); err != nil {
			t.Fatalf("search %d failed: %v", i, err)
		}
	}
	if reader.listCalls != 1 {
		t.Fatalf("expected a single store read, got %d", reader.listCalls)
	}

	svc.InvalidateCache()
	if _, err := svc.Search(context.Background(), Query{}); err != nil {
		t.Fatalf("search after invalidation failed: %v", err)
	}
	if reader.listCalls != 2 {
		t.Fatalf("expected a fresh read after invalidation, got %d calls", reader.listCalls)
	}
}

func TestSearchReturnsTotalAndFacets(t *testing.T) {
	reader := &stubPaperReader{papers: approvedSet()}
	svc := NewSearchService(reader, nil)

	resp, err := svc.Search(context.Background(), Query{Filters: Filters{Degree: "B.Com"}})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if resp.Total != 1 || len(resp.Papers) != 1 {
		t.Fatalf("expected a single match, got total=%d papers=%d", resp.Total, len(resp.Papers))
	}
	// Facets come from the whole approved set, not the filtered one
	if len(resp.Facets.Universities) != 2 {
		t.Fatalf("facets derived from filtered set: %v", resp.Facets.Universities)
	}
}

func TestSearchPropagatesStoreErrors(t *testing.T) {
	reader := &stubPaperReader{err: errors.New("connection refused")}
	svc := NewSearchService(reader, nil)

	if _, err := svc.Search(context.Background(), Query{}); err == nil {
		t.Fatal("expected the store error to surface")
	}
}

func TestGetApprovedHidesPendingPapers(t *testing.T) {
	pending := paper("Chemistry", "Pune University", "B.Sc", 2023, false)
	reader := &stubPaperReader{byID: map[uuid.UUID]*models.Paper{pending.ID: &pending}}
	svc := NewSearchService(reader, nil)

	_, err := svc.GetApproved(context.Background(), pending.ID)
	if !errors.Is(err, apperrors.ErrPaperNotFound) {
		t.Fatalf("pending paper visible on the public surface: %v", err)
	}

	_, err = svc.GetApproved(context.Background(), uuid.New())
	if !errors.Is(err, apperrors.ErrPaperNotFound) {
		t.Fatalf("unknown paper should look identical to pending: %v", err)
	}
}

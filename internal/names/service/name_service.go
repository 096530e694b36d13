package service

import (
	"context"
	"errors"

	"github.com/randomnamegen/namegen-backend/internal/names/domain"
	"github.com/randomnamegen/namegen-backend/internal/names/upstream"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// NameDatabase is the subset of the name database API the service needs
type NameDatabase interface {
	Random(ctx context.Context, req domain.GenerateRequest) ([]string, error)
	Lookup(ctx context.Context, req domain.LookupRequest) ([]upstream.LookupRecord, error)
	Related(ctx context.Context, req domain.RelatedRequest) ([]string, error)
}

// OriginClassifier estimates where a personal name comes from
type OriginClassifier interface {
	Configured() bool
	Origin(ctx context.Context, req domain.OriginRequest) (*domain.OriginResult, error)
}

// NameService translates validated requests into upstream calls and reshapes
// the results. It holds no per-request state.
type NameService struct {
	db            NameDatabase
	origin        OriginClassifier
	detailWorkers int
	log           *logger.Logger
}

// NewNameService creates a new NameService. detailWorkers bounds the parallel
// lookups made when a generation request asks for details.
func NewNameService(db NameDatabase, origin OriginClassifier, detailWorkers int, log *logger.Logger) *NameService {
	if detailWorkers < 1 {
		detailWorkers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &NameService{
		db:            db,
		origin:        origin,
		detailWorkers: detailWorkers,
		log:           log,
	}
}

// Generate returns random names tagged with the requested usage
func (s *NameService) Generate(ctx context.Context, req domain.GenerateRequest) ([]domain.NameData, error) {
	raw, err := s.db.Random(ctx, req)
	if err != nil {
		return nil, err
	}

	names := make([]domain.NameData, len(raw))
	for i, n := range raw {
		names[i] = domain.NameData{Name: n, Usage: req.Usage}
	}

	if req.IncludeDetails {
		s.enrich(ctx, names)
	}
	return names, nil
}

// enrich fills meaning, etymology and gender in place. Lookup failures leave
// the entry untouched.
func (s *NameService) enrich(ctx context.Context, names []domain.NameData) {
	log := logger.FromContext(ctx, s.log)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailWorkers)
	for i := range names {
		i := i
		g.Go(func() error {
			detail, err := s.Lookup(gctx, domain.LookupRequest{Name: names[i].Name, Exact: true})
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					log.Warn("name detail lookup failed", "name", names[i].Name, "error", err)
				}
				return nil
			}
			names[i].Meaning = detail.Meaning
			names[i].Etymology = detail.Etymology
			names[i].Gender = detail.Gender
			return nil
		})
	}
	_ = g.Wait()
}

// Lookup returns the details of the first record matching req.Name
func (s *NameService) Lookup(ctx context.Context, req domain.LookupRequest) (*domain.NameData, error) {
	records, err := s.db.Lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}

	first := records[0]
	out := &domain.NameData{
		Name:      first.Name,
		Meaning:   first.Meaning,
		Etymology: first.Etymology,
		Gender:    first.Gender,
	}
	if out.Name == "" {
		out.Name = req.Name
	}
	if len(first.Usages) > 0 {
		out.Usage = first.Usages[0].Full
		if out.Usage == "" {
			out.Usage = first.Usages[0].Code
		}
	}
	return out, nil
}

// Related returns a flat list of related names; never nil on success
func (s *NameService) Related(ctx context.Context, req domain.RelatedRequest) ([]string, error) {
	names, err := s.db.Related(ctx, req)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// OriginConfigured reports whether the origin classifier has credentials
func (s *NameService) OriginConfigured() bool {
	return s.origin != nil && s.origin.Configured()
}

// Origin classifies a personal name
func (s *NameService) Origin(ctx context.Context, req domain.OriginRequest) (*domain.OriginResult, error) {
	if !s.OriginConfigured() {
		return nil, domain.ErrMissingCredential
	}
	return s.origin.Origin(ctx, req)
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"snapland/internal/core/contracts"
	"snapland/internal/core/domain"
	"snapland/internal/core/geo"
	"snapland/pkg/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AreaService persists drawn polygons with versioned geometry. Every write
// goes through the polygon validator first.
type AreaService struct {
	log       *slog.Logger
	validator *geo.Validator
	repo      domain.AreaRepository
	tx        contracts.TxRunner
	audit     contracts.AuditTrail
}

func NewAreaService(
	log *slog.Logger,
	validator *geo.Validator,
	repo domain.AreaRepository,
	tx contracts.TxRunner,
	audit contracts.AuditTrail,
) *AreaService {
	return &AreaService{
		log:       log,
		validator: validator,
		repo:      repo,
		tx:        tx,
		audit:     audit,
	}
}

// CreateArea validates the ring, computes its size and stores the area along
// with version 1 in one transaction.
func (s *AreaService) CreateArea(ctx context.Context, userID uuid.UUID, name string, coords [][]float64) (*domain.Area, error) {
	ctx, span := tracer.Start(ctx, "AreaService.CreateArea", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidAreaName
	}
	res := s.validator.Validate(coords)
	if !res.Valid {
		span.RecordError(res.Err)
		return nil, res.Err
	}

	now := time.Now().UTC()
	area := &domain.Area{
		ID:              uuid.New(),
		Name:            name,
		Polygon:         res.Polygon,
		AreaKm2:         geo.AreaKm2(res.Polygon),
		CreatedByUserID: userID,
		CreatedAt:       now,
	}
	version := &domain.AreaVersion{
		ID:             uuid.New(),
		AreaID:         area.ID,
		VersionNumber:  1,
		Name:           name,
		Polygon:        res.Polygon,
		EditedByUserID: userID,
		CreatedAt:      now,
	}

	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateArea(txCtx, area); err != nil {
			return err
		}
		return s.repo.CreateVersion(txCtx, version)
	}); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "area - create area - tx failed", logging.User(userID.String()), logging.Err(err))
		return nil, fmt.Errorf("create area: %w", err)
	}

	s.audit.Record(ctx, userID, "area.create", area.ID.String())
	s.log.InfoContext(ctx, "area - create area - success",
		logging.Area(area.ID.String()), logging.User(userID.String()), "area_km2", area.AreaKm2)
	return area, nil
}

// ListAreas returns non-deleted areas intersecting the viewport.
func (s *AreaService) ListAreas(ctx context.Context, b domain.BoundingBox) ([]domain.Area, error) {
	areas, err := s.repo.ListAreasInBounds(ctx, b)
	if err != nil {
		s.log.ErrorContext(ctx, "area - list areas - query failed", logging.Err(err))
		return nil, fmt.Errorf("list areas: %w", err)
	}
	return areas, nil
}

// CreateVersion appends a new version with updated geometry or name to an
// existing area.
func (s *AreaService) CreateVersion(ctx context.Context, userID, areaID uuid.UUID, name string, coords [][]float64) (*domain.AreaVersion, error) {
	ctx, span := tracer.Start(ctx, "AreaService.CreateVersion", trace.WithAttributes(
		attribute.String("area.id", areaID.String()),
	))
	defer span.End()

	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidAreaName
	}
	res := s.validator.Validate(coords)
	if !res.Valid {
		span.RecordError(res.Err)
		return nil, res.Err
	}

	var version *domain.AreaVersion
	if err := s.tx.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetAreaByID(txCtx, areaID); err != nil {
			return err
		}
		next, err := s.repo.NextVersionNumber(txCtx, areaID)
		if err != nil {
			return err
		}
		version = &domain.AreaVersion{
			ID:             uuid.New(),
			AreaID:         areaID,
			VersionNumber:  next,
			Name:           name,
			Polygon:        res.Polygon,
			EditedByUserID: userID,
			CreatedAt:      time.Now().UTC(),
		}
		return s.repo.CreateVersion(txCtx, version)
	}); err != nil {
		span.RecordError(err)
		s.log.ErrorContext(ctx, "area - create version - tx failed", logging.Area(areaID.String()), logging.Err(err))
		return nil, err
	}

	s.audit.Record(ctx, userID, "area.version", areaID.String())
	s.log.InfoContext(ctx, "area - create version - success",
		logging.Area(areaID.String()), "version", version.VersionNumber)
	return version, nil
}

// ListVersions returns all saved versions for an area, newest first.
func (s *AreaService) ListVersions(ctx context.Context, areaID uuid.UUID) ([]domain.AreaVersion, error) {
	if _, err := s.repo.GetAreaByID(ctx, areaID); err != nil {
		return nil, err
	}
	versions, err := s.repo.ListVersions(ctx, areaID)
	if err != nil {
		s.log.ErrorContext(ctx, "area - list versions - query failed", logging.Area(areaID.String()), logging.Err(err))
		return nil, fmt.Errorf("list versions: %w", err)
	}
	return versions, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"snapland/internal/core/domain"

	"github.com/google/uuid"
	"github.com/peterstace/simplefeatures/geom"
)

// AreaRepo stores polygons in PostGIS geometry columns. Geometry crosses the
// driver as WKB; SRID 4326 is pinned on the database side.
type AreaRepo struct {
	db *sql.DB
}

func NewAreaRepository(db *sql.DB) *AreaRepo {
	return &AreaRepo{db: db}
}

func (r *AreaRepo) CreateArea(ctx context.Context, a *domain.Area) error {
	query := `
		INSERT INTO areas (id, name, geometry, area_km2, created_by_user_id, created_at, is_deleted)
		VALUES ($1, $2, ST_SetSRID(ST_GeomFromWKB($3), 4326), $4, $5, $6, false)`
	exec := getExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		a.ID, a.Name, a.Polygon.AsBinary(), a.AreaKm2, a.CreatedByUserID, a.CreatedAt)
	return err
}

func (r *AreaRepo) GetAreaByID(ctx context.Context, id uuid.UUID) (*domain.Area, error) {
	a := &domain.Area{ID: id}
	var wkb []byte
	query := `
		SELECT name, ST_AsBinary(geometry), area_km2, created_by_user_id, created_at
		FROM areas WHERE id = $1 AND NOT is_deleted`
	exec := getExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, id).
		Scan(&a.Name, &wkb, &a.AreaKm2, &a.CreatedByUserID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAreaNotFound
		}
		return nil, err
	}
	if a.Polygon, err = polygonFromWKB(wkb); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AreaRepo) ListAreasInBounds(ctx context.Context, b domain.BoundingBox) ([]domain.Area, error) {
	query := `
		SELECT id, name, ST_AsBinary(geometry), area_km2, created_by_user_id, created_at
		FROM areas
		WHERE NOT is_deleted
		  AND ST_Intersects(geometry, ST_MakeEnvelope($1, $2, $3, $4, 4326))`
	exec := getExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var areas []domain.Area
	for rows.Next() {
		var a domain.Area
		var wkb []byte
		if err := rows.Scan(&a.ID, &a.Name, &wkb, &a.AreaKm2, &a.CreatedByUserID, &a.CreatedAt); err != nil {
			return nil, err
		}
		if a.Polygon, err = polygonFromWKB(wkb); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

func (r *AreaRepo) CreateVersion(ctx context.Context, v *domain.AreaVersion) error {
	query := `
		INSERT INTO area_versions (id, area_id, version_number, name, geometry, edited_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_GeomFromWKB($5), 4326), $6, $7)`
	exec := getExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, query,
		v.ID, v.AreaID, v.VersionNumber, v.Name, v.Polygon.AsBinary(), v.EditedByUserID, v.CreatedAt)
	return err
}

func (r *AreaRepo) NextVersionNumber(ctx context.Context, areaID uuid.UUID) (int, error) {
	var next int
	query := `
		SELECT COALESCE(MAX(version_number), 0) + 1
		FROM area_versions WHERE area_id = $1`
	exec := getExecutor(ctx, r.db)
	err := exec.QueryRowContext(ctx, query, areaID).Scan(&next)
	return next, err
}

func (r *AreaRepo) ListVersions(ctx context.Context, areaID uuid.UUID) ([]domain.AreaVersion, error) {
	query := `
		SELECT id, version_number, name, ST_AsBinary(geometry), edited_by_user_id, created_at
		FROM area_versions
		WHERE area_id = $1
		ORDER BY version_number DESC`
	exec := getExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, areaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []domain.AreaVersion
	for rows.Next() {
		v := domain.AreaVersion{AreaID: areaID}
		var wkb []byte
		if err := rows.Scan(&v.ID, &v.VersionNumber, &v.Name, &wkb, &v.EditedByUserID, &v.CreatedAt); err != nil {
			return nil, err
		}
		if v.Polygon, err = polygonFromWKB(wkb); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func polygonFromWKB(wkb []byte) (geom.Polygon, error) {
	g, err := geom.UnmarshalWKB(wkb)
	if err != nil {
		return geom.Polygon{}, fmt.Errorf("decode geometry: %w", err)
	}
	p, ok := g.AsPolygon()
	if !ok {
		return geom.Polygon{}, fmt.Errorf("unexpected geometry type %s", g.Type())
	}
	return p, nil
}

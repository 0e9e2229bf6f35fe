package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matatuconnect/backend/internal/model"
)

// CreateRoute creates a route.
func CreateRoute(ctx context.Context, db *sql.DB, displayName string) (*model.Route, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO routes (display_name) VALUES (?)`, displayName,
	)
	if err != nil {
		return nil, fmt.Errorf("creating route: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.Route{ID: id, DisplayName: displayName}, nil
}

// ListRoutes returns all routes ordered by name.
func ListRoutes(ctx context.Context, db *sql.DB) ([]model.Route, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, display_name FROM routes ORDER BY display_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}
	defer rows.Close()

	var routes []model.Route
	for rows.Next() {
		var r model.Route
		if err := rows.Scan(&r.ID, &r.DisplayName); err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		routes = append(routes, r)
	}
	return routes, rows.Err()
}

// UpdateRoute renames a route.
func UpdateRoute(ctx context.Context, db *sql.DB, id int64, displayName string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE routes SET display_name = ? WHERE id = ?`, displayName, id,
	)
	if err != nil {
		return fmt.Errorf("updating route: %w", err)
	}
	return checkAffected(result, "route", id)
}

// DeleteRoute removes a route and its operations (cascade).
func DeleteRoute(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM routes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting route: %w", err)
	}
	return checkAffected(result, "route", id)
}

// CreateStage creates a stage with coordinates.
func CreateStage(ctx context.Context, db *sql.DB, name string, latitude, longitude float64) (*model.Stage, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO stages (name, latitude, longitude) VALUES (?, ?, ?)`,
		name, latitude, longitude,
	)
	if err != nil {
		return nil, fmt.Errorf("creating stage: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.Stage{ID: id, Name: name, Latitude: latitude, Longitude: longitude}, nil
}

// ListStages returns all stages ordered by name.
func ListStages(ctx context.Context, db *sql.DB) ([]model.Stage, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, latitude, longitude FROM stages ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	defer rows.Close()

	var stages []model.Stage
	for rows.Next() {
		var s model.Stage
		if err := rows.Scan(&s.ID, &s.Name, &s.Latitude, &s.Longitude); err != nil {
			return nil, fmt.Errorf("scanning stage: %w", err)
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

// UpdateStage updates a stage's name and coordinates.
func UpdateStage(ctx context.Context, db *sql.DB, id int64, name string, latitude, longitude float64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE stages SET name = ?, latitude = ?, longitude = ? WHERE id = ?`,
		name, latitude, longitude, id,
	)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}
	return checkAffected(result, "stage", id)
}

// DeleteStage removes a stage.
func DeleteStage(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting stage: %w", err)
	}
	return checkAffected(result, "stage", id)
}

// CreateSacco creates a sacco.
func CreateSacco(ctx context.Context, db *sql.DB, name string) (*model.Sacco, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO saccos (name) VALUES (?)`, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating sacco: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.Sacco{ID: id, Name: name}, nil
}

// ListSaccos returns all saccos ordered by name.
func ListSaccos(ctx context.Context, db *sql.DB) ([]model.Sacco, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name FROM saccos ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing saccos: %w", err)
	}
	defer rows.Close()

	var saccos []model.Sacco
	for rows.Next() {
		var s model.Sacco
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning sacco: %w", err)
		}
		saccos = append(saccos, s)
	}
	return saccos, rows.Err()
}

// DeleteSacco removes a sacco and its operations and ratings (cascade).
func DeleteSacco(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM saccos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting sacco: %w", err)
	}
	return checkAffected(result, "sacco", id)
}

// CreateOperation links a sacco to a route and its terminal stages.
func CreateOperation(ctx context.Context, db *sql.DB, saccoID, routeID, fromStageID int64, toStageID *int64) (*model.Operation, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO operations (sacco_id, route_id, from_stage_id, to_stage_id)
		 VALUES (?, ?, ?, ?)`,
		saccoID, routeID, fromStageID, toStageID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, _ := result.LastInsertId()
	return &model.Operation{ID: id, SaccoID: saccoID, RouteID: routeID, FromStageID: fromStageID, ToStageID: toStageID}, nil
}

// ListOperations returns sacco operations joined with route and stage details
// for the search view. The from-stage coordinates are included for maps.
func ListOperations(ctx context.Context, db *sql.DB) ([]model.Operation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT o.id, o.sacco_id, o.route_id, o.from_stage_id, o.to_stage_id,
		        s.name, r.display_name, fs.name, ts.name,
		        fs.latitude, fs.longitude
		 FROM operations o
		 JOIN saccos s ON s.id = o.sacco_id
		 JOIN routes r ON r.id = o.route_id
		 JOIN stages fs ON fs.id = o.from_stage_id
		 LEFT JOIN stages ts ON ts.id = o.to_stage_id
		 ORDER BY s.name, r.display_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []model.Operation
	for rows.Next() {
		var o model.Operation
		var toStage sql.NullString
		if err := rows.Scan(&o.ID, &o.SaccoID, &o.RouteID, &o.FromStageID, &o.ToStageID,
			&o.SaccoName, &o.RouteName, &o.FromStage, &toStage,
			&o.StageLatitude, &o.StageLongitude); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		o.ToStage = toStage.String
		ops = append(ops, o)
	}
	return ops, rows.Err()
}

// DeleteOperation removes an operation.
func DeleteOperation(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM operations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting operation: %w", err)
	}
	return checkAffected(result, "operation", id)
}

// checkAffected converts a zero-row update/delete into ErrNotFound.
func checkAffected(result sql.Result, kind string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return nil
}

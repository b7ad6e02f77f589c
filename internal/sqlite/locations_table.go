package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// LocationsTable reads and writes locations.
type LocationsTable struct {
	backend *Backend
}

var locationSortColumns = map[string]string{
	"id":           "id",
	"name":         "name",
	"country":      "country",
	"city":         "city",
	"locationCode": "location_code",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

const locationColumns = "id, name, country, city, location_code, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(row scanner) (types.Location, error) {
	var l types.Location
	var createdAt, updatedAt string
	if err := row.Scan(&l.ID, &l.Name, &l.Country, &l.City, &l.LocationCode, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Location{}, types.ErrNotFound
		}
		return types.Location{}, fmt.Errorf("scanning location: %w", err)
	}
	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return types.Location{}, fmt.Errorf("parsing location created_at: %w", err)
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return types.Location{}, fmt.Errorf("parsing location updated_at: %w", err)
	}
	return l, nil
}

// List returns one page of locations.
func (t *LocationsTable) List(req types.PageRequest) (types.Page[types.Location], error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Page[types.Location]{}, ErrDetached
	}

	order, err := orderBy(req.Sort, locationSortColumns, "id ASC")
	if err != nil {
		return types.Page[types.Location]{}, err
	}
	limit, offset := pageBounds(req)

	var total int64
	if err := t.backend.db.QueryRow("SELECT COUNT(*) FROM location").Scan(&total); err != nil {
		return types.Page[types.Location]{}, fmt.Errorf("counting locations: %w", err)
	}

	rows, err := t.backend.db.Query(
		"SELECT "+locationColumns+" FROM location ORDER BY "+order+" LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return types.Page[types.Location]{}, fmt.Errorf("listing locations: %w", err)
	}
	defer rows.Close()

	var items []types.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return types.Page[types.Location]{}, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return types.Page[types.Location]{}, err
	}
	return pageOf(items, total, limit, offset), nil
}

// Codes returns one page of location codes.
func (t *LocationsTable) Codes(req types.PageRequest) (types.Page[string], error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Page[string]{}, ErrDetached
	}

	order, err := orderBy(req.Sort, locationSortColumns, "id ASC")
	if err != nil {
		return types.Page[string]{}, err
	}
	limit, offset := pageBounds(req)

	var total int64
	if err := t.backend.db.QueryRow("SELECT COUNT(*) FROM location").Scan(&total); err != nil {
		return types.Page[string]{}, fmt.Errorf("counting locations: %w", err)
	}

	rows, err := t.backend.db.Query(
		"SELECT location_code FROM location ORDER BY "+order+" LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return types.Page[string]{}, fmt.Errorf("listing location codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return types.Page[string]{}, fmt.Errorf("scanning location code: %w", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return types.Page[string]{}, err
	}
	return pageOf(codes, total, limit, offset), nil
}

// Get retrieves a location by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (t *LocationsTable) Get(id string) (types.Location, error) {
	if id == "" {
		return types.Location{}, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Location{}, ErrDetached
	}
	return scanLocation(t.backend.db.QueryRow("SELECT "+locationColumns+" FROM location WHERE id = ?", id))
}

// GetByCode retrieves a location by its location code.
func (t *LocationsTable) GetByCode(code string) (types.Location, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Location{}, ErrDetached
	}
	return scanLocation(t.backend.db.QueryRow("SELECT "+locationColumns+" FROM location WHERE location_code = ?", code))
}

func validateLocation(data types.LocationFormData) error {
	fields := []struct{ name, value string }{
		{"name", data.Name},
		{"country", data.Country},
		{"city", data.City},
		{"locationCode", data.LocationCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return invalid("%s must not be empty", f.name)
		}
	}
	return nil
}

// Create stores a new location with a generated UUID v7.
func (t *LocationsTable) Create(data types.LocationFormData) (types.Location, error) {
	if err := validateLocation(data); err != nil {
		return types.Location{}, err
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.Location{}, ErrDetached
	}
	if err := t.checkCodeFree(data.LocationCode, ""); err != nil {
		return types.Location{}, err
	}

	id := generateUUID()
	now := formatTime(t.backend.now())
	_, err := t.backend.db.Exec(
		"INSERT INTO location ("+locationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, data.Name, data.Country, data.City, data.LocationCode, now, now)
	if err != nil {
		return types.Location{}, fmt.Errorf("inserting location: %w", err)
	}
	return scanLocation(t.backend.db.QueryRow("SELECT "+locationColumns+" FROM location WHERE id = ?", id))
}

// Update replaces the editable fields of a location.
func (t *LocationsTable) Update(id string, data types.LocationFormData) (types.Location, error) {
	if id == "" {
		return types.Location{}, types.ErrInvalidID
	}
	if err := validateLocation(data); err != nil {
		return types.Location{}, err
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.Location{}, ErrDetached
	}
	if err := t.checkCodeFree(data.LocationCode, id); err != nil {
		return types.Location{}, err
	}

	res, err := t.backend.db.Exec(
		"UPDATE location SET name = ?, country = ?, city = ?, location_code = ?, updated_at = ? WHERE id = ?",
		data.Name, data.Country, data.City, data.LocationCode, formatTime(t.backend.now()), id)
	if err != nil {
		return types.Location{}, fmt.Errorf("updating location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Location{}, types.ErrNotFound
	}
	return scanLocation(t.backend.db.QueryRow("SELECT "+locationColumns+" FROM location WHERE id = ?", id))
}

// Delete removes a location. A location still used by a transportation
// cannot be deleted.
func (t *LocationsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return ErrDetached
	}

	var refs int
	err := t.backend.db.QueryRow(
		"SELECT COUNT(*) FROM transportation WHERE origin_id = ? OR destination_id = ?", id, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("counting location references: %w", err)
	}
	if refs > 0 {
		return invalid("location is used by %d transportation(s)", refs)
	}

	res, err := t.backend.db.Exec("DELETE FROM location WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// checkCodeFree fails when another location already uses code.
// The caller must hold the write lock.
func (t *LocationsTable) checkCodeFree(code, selfID string) error {
	var owner string
	err := t.backend.db.QueryRow("SELECT id FROM location WHERE location_code = ?", code).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking location code: %w", err)
	}
	if owner != selfID {
		return invalid("location code %q already exists", code)
	}
	return nil
}

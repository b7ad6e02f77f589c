package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// TransportationsTable reads and writes transportations and their
// operating days.
type TransportationsTable struct {
	backend *Backend
}

var transportationSortColumns = map[string]string{
	"id":                 "t.id",
	"transportationType": "t.transportation_type",
	"createdAt":          "t.created_at",
	"updatedAt":          "t.updated_at",
}

const transportationSelect = `SELECT t.id, t.transportation_type, t.created_at, t.updated_at,
    o.id, o.name, o.country, o.city, o.location_code, o.created_at, o.updated_at,
    d.id, d.name, d.country, d.city, d.location_code, d.created_at, d.updated_at,
    COALESCE((SELECT group_concat(od.operating_day) FROM transportation_operating_day od
              WHERE od.transportation_id = t.id), '')
FROM transportation t
JOIN location o ON o.id = t.origin_id
JOIN location d ON d.id = t.destination_id`

func scanTransportation(row scanner) (types.Transportation, error) {
	var tr types.Transportation
	var typ, createdAt, updatedAt, days string
	var o, d locationCols
	err := row.Scan(&tr.ID, &typ, &createdAt, &updatedAt,
		&o.id, &o.name, &o.country, &o.city, &o.code, &o.createdAt, &o.updatedAt,
		&d.id, &d.name, &d.country, &d.city, &d.code, &d.createdAt, &d.updatedAt,
		&days)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Transportation{}, types.ErrNotFound
	}
	if err != nil {
		return types.Transportation{}, fmt.Errorf("scanning transportation: %w", err)
	}
	tr.Type = types.TransportationType(typ)
	if tr.CreatedAt, err = parseTime(createdAt); err != nil {
		return types.Transportation{}, fmt.Errorf("parsing transportation created_at: %w", err)
	}
	if tr.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return types.Transportation{}, fmt.Errorf("parsing transportation updated_at: %w", err)
	}
	if tr.Origin, err = o.location(); err != nil {
		return types.Transportation{}, err
	}
	if tr.Destination, err = d.location(); err != nil {
		return types.Transportation{}, err
	}
	if tr.OperatingDays, err = parseDayList(days); err != nil {
		return types.Transportation{}, err
	}
	return tr, nil
}

type locationCols struct {
	id, name, country, city, code, createdAt, updatedAt string
}

func (c locationCols) location() (types.Location, error) {
	created, err := parseTime(c.createdAt)
	if err != nil {
		return types.Location{}, fmt.Errorf("parsing location created_at: %w", err)
	}
	updated, err := parseTime(c.updatedAt)
	if err != nil {
		return types.Location{}, fmt.Errorf("parsing location updated_at: %w", err)
	}
	return types.Location{
		ID: c.id, Name: c.name, Country: c.country, City: c.city, LocationCode: c.code,
		CreatedAt: created, UpdatedAt: updated,
	}, nil
}

func parseDayList(s string) (types.OperatingDays, error) {
	if s == "" {
		return types.OperatingDays{}, nil
	}
	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("parsing operating day %q: %w", p, err)
		}
		indices = append(indices, n)
	}
	return types.NewOperatingDays(indices...)
}

func (t *TransportationsTable) query(where, order string, args ...any) ([]types.Transportation, error) {
	q := transportationSelect
	if where != "" {
		q += " WHERE " + where
	}
	if order != "" {
		q += " ORDER BY " + order
	}
	rows, err := t.backend.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transportations: %w", err)
	}
	defer rows.Close()

	var out []types.Transportation
	for rows.Next() {
		tr, err := scanTransportation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// List returns one page of transportations.
func (t *TransportationsTable) List(req types.PageRequest) (types.Page[types.Transportation], error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Page[types.Transportation]{}, ErrDetached
	}

	order, err := orderBy(req.Sort, transportationSortColumns, "t.id ASC")
	if err != nil {
		return types.Page[types.Transportation]{}, err
	}
	limit, offset := pageBounds(req)

	var total int64
	if err := t.backend.db.QueryRow("SELECT COUNT(*) FROM transportation").Scan(&total); err != nil {
		return types.Page[types.Transportation]{}, fmt.Errorf("counting transportations: %w", err)
	}
	items, err := t.query("", order+" LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return types.Page[types.Transportation]{}, err
	}
	return pageOf(items, total, limit, offset), nil
}

// Get retrieves a transportation by ID.
func (t *TransportationsTable) Get(id int64) (types.Transportation, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return types.Transportation{}, ErrDetached
	}
	return t.get(id)
}

func (t *TransportationsTable) get(id int64) (types.Transportation, error) {
	return scanTransportation(t.backend.db.QueryRow(transportationSelect+" WHERE t.id = ?", id))
}

// OperatingOn returns every transportation that runs on day, ordered by ID.
func (t *TransportationsTable) OperatingOn(day time.Weekday) ([]types.Transportation, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, ErrDetached
	}
	return t.query(
		"EXISTS (SELECT 1 FROM transportation_operating_day od WHERE od.transportation_id = t.id AND od.operating_day = ?)",
		"t.id ASC", int(day))
}

// resolve validates data and returns the origin and destination location IDs.
// The caller must hold the write lock.
func (t *TransportationsTable) resolve(tx *sql.Tx, data types.TransportationFormData) (string, string, error) {
	if !data.Type.Valid() {
		return "", "", invalid("transportationType %q is not one of FLIGHT, BUS, SUBWAY, RIDE", data.Type)
	}
	if data.OperatingDays == nil {
		return "", "", invalid("operatingDays must not be null")
	}
	for _, d := range data.OperatingDays {
		if d < time.Sunday || d > time.Saturday {
			return "", "", invalid("operating day %d is outside 0-6", d)
		}
	}
	originID, err := locationIDByCode(tx, data.OriginCode)
	if err != nil {
		return "", "", err
	}
	destinationID, err := locationIDByCode(tx, data.DestinationCode)
	if err != nil {
		return "", "", err
	}
	return originID, destinationID, nil
}

func locationIDByCode(tx *sql.Tx, code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", invalid("location code must not be empty")
	}
	var id string
	err := tx.QueryRow("SELECT id FROM location WHERE location_code = ?", code).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", invalid("unknown location code %q", code)
	}
	if err != nil {
		return "", fmt.Errorf("resolving location code: %w", err)
	}
	return id, nil
}

func writeDays(tx *sql.Tx, id int64, days types.OperatingDays) error {
	if _, err := tx.Exec("DELETE FROM transportation_operating_day WHERE transportation_id = ?", id); err != nil {
		return fmt.Errorf("clearing operating days: %w", err)
	}
	for _, d := range days.Canonical() {
		if _, err := tx.Exec(
			"INSERT INTO transportation_operating_day (transportation_id, operating_day) VALUES (?, ?)", id, int(d)); err != nil {
			return fmt.Errorf("inserting operating day: %w", err)
		}
	}
	return nil
}

// Create stores a new transportation between two existing location codes.
func (t *TransportationsTable) Create(data types.TransportationFormData) (types.Transportation, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.Transportation{}, ErrDetached
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return types.Transportation{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	originID, destinationID, err := t.resolve(tx, data)
	if err != nil {
		return types.Transportation{}, err
	}
	now := formatTime(t.backend.now())
	res, err := tx.Exec(
		"INSERT INTO transportation (origin_id, destination_id, transportation_type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		originID, destinationID, string(data.Type), now, now)
	if err != nil {
		return types.Transportation{}, fmt.Errorf("inserting transportation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return types.Transportation{}, fmt.Errorf("reading transportation id: %w", err)
	}
	if err := writeDays(tx, id, data.OperatingDays); err != nil {
		return types.Transportation{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.Transportation{}, fmt.Errorf("commit: %w", err)
	}
	return t.get(id)
}

// Update replaces every editable field of a transportation.
func (t *TransportationsTable) Update(id int64, data types.TransportationFormData) (types.Transportation, error) {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.Transportation{}, ErrDetached
	}

	tx, err := t.backend.db.Begin()
	if err != nil {
		return types.Transportation{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	originID, destinationID, err := t.resolve(tx, data)
	if err != nil {
		return types.Transportation{}, err
	}
	res, err := tx.Exec(
		"UPDATE transportation SET origin_id = ?, destination_id = ?, transportation_type = ?, updated_at = ? WHERE id = ?",
		originID, destinationID, string(data.Type), formatTime(t.backend.now()), id)
	if err != nil {
		return types.Transportation{}, fmt.Errorf("updating transportation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.Transportation{}, types.ErrNotFound
	}
	if err := writeDays(tx, id, data.OperatingDays); err != nil {
		return types.Transportation{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.Transportation{}, fmt.Errorf("commit: %w", err)
	}
	return t.get(id)
}

// Delete removes a transportation and its operating days.
func (t *TransportationsTable) Delete(id int64) error {
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return ErrDetached
	}
	res, err := t.backend.db.Exec("DELETE FROM transportation WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transportation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return nil
}

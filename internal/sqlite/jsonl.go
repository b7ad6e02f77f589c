package sqlite

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// Files written by Export and read by Import.
const (
	LocationsFile       = "locations.jsonl"
	TransportationsFile = "transportations.jsonl"
)

// ImportResult counts what Import stored and what it skipped.
type ImportResult struct {
	Locations       int `json:"locations"`
	Transportations int `json:"transportations"`
	Skipped         int `json:"skipped"`
}

// Export writes every location and transportation to dir, one form-data
// record per line, oldest first. Transportations name their endpoints by
// location code, so the files load into any database.
func (b *Backend) Export(dir string) error {
	locations, transportations, err := b.dump()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	if err := writeRecords(filepath.Join(dir, LocationsFile), locations); err != nil {
		return err
	}
	return writeRecords(filepath.Join(dir, TransportationsFile), transportations)
}

func (b *Backend) dump() ([]types.LocationFormData, []types.TransportationFormData, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, nil, ErrDetached
	}

	rows, err := b.db.Query("SELECT " + locationColumns + " FROM location ORDER BY created_at, id")
	if err != nil {
		return nil, nil, fmt.Errorf("querying locations: %w", err)
	}
	defer rows.Close()
	var locations []types.LocationFormData
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, nil, err
		}
		locations = append(locations, l.FormData())
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	all, err := b.transportations.query("", "t.id ASC")
	if err != nil {
		return nil, nil, err
	}
	transportations := make([]types.TransportationFormData, len(all))
	for i, t := range all {
		transportations[i] = t.FormData()
	}
	return locations, transportations, nil
}

// Import loads the files in dir through the same validation as the REST
// handlers, locations first. Malformed lines and records the tables
// reject are skipped and counted. A missing file counts as empty.
func (b *Backend) Import(dir string) (ImportResult, error) {
	var res ImportResult

	locations, malformed, err := readJSONL(filepath.Join(dir, LocationsFile))
	if err != nil {
		return res, err
	}
	res.Skipped += malformed
	for _, rec := range locations {
		var data types.LocationFormData
		if err := json.Unmarshal(rec, &data); err != nil {
			res.Skipped++
			continue
		}
		if _, err := b.locations.Create(data); err != nil {
			if errors.Is(err, ErrDetached) {
				return res, err
			}
			res.Skipped++
			continue
		}
		res.Locations++
	}

	transportations, malformed, err := readJSONL(filepath.Join(dir, TransportationsFile))
	if err != nil {
		return res, err
	}
	res.Skipped += malformed
	for _, rec := range transportations {
		var data types.TransportationFormData
		if err := json.Unmarshal(rec, &data); err != nil {
			res.Skipped++
			continue
		}
		if _, err := b.transportations.Create(data); err != nil {
			if errors.Is(err, ErrDetached) {
				return res, err
			}
			res.Skipped++
			continue
		}
		res.Transportations++
	}
	return res, nil
}

// readJSONL returns the non-empty, well-formed lines of path and how many
// malformed lines it dropped. A missing file reads as empty.
func readJSONL(path string) ([]json.RawMessage, int, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	malformed := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			malformed++
			continue
		}
		records = append(records, json.RawMessage(append([]byte(nil), line...)))
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, malformed, nil
}

func writeRecords[T any](path string, items []T) error {
	records := make([]json.RawMessage, len(items))
	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
		}
		records[i] = data
	}
	return writeJSONL(path, records)
}

// writeJSONL replaces path atomically: temp file, fsync, rename.
func writeJSONL(path string, records []json.RawMessage) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err = w.Write(rec); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
		if err = w.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

package storage

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

const (
	catalogFile  = "catalog.db"
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"

	// fixed width so created_at sorts as text
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

var ErrRunNotFound = errors.New("storage: run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	created_at   TEXT NOT NULL,
	label        TEXT,
	integrator   TEXT,
	load         REAL NOT NULL,
	lambda       REAL NOT NULL,
	samples      INTEGER NOT NULL,
	horizon      REAL NOT NULL,
	params_json  TEXT NOT NULL,
	metrics_json TEXT
);
`

// Store keeps one directory per run under baseDir and indexes them in a
// SQLite catalog.
type Store struct {
	baseDir string
	db      *sql.DB
}

// Open creates baseDir if needed and migrates the catalog.
func Open(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(baseDir, catalogFile))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{baseDir: baseDir, db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID         string             `json:"id"`
	CreatedAt  time.Time          `json:"created_at"`
	Label      string             `json:"label,omitempty"`
	Integrator string             `json:"integrator"`
	Load       float64            `json:"load"`
	Lambda     float64            `json:"lambda"`
	Horizon    float64            `json:"horizon"`
	Samples    int                `json:"samples"`
	Steps      int                `json:"steps"`
	Rejected   int                `json:"rejected"`
	Params     model.Parameters   `json:"params"`
	Metrics    map[string]float64 `json:"metrics"`
}

// SaveOptions describes how a run was produced.
type SaveOptions struct {
	Label      string
	Integrator string
}

// Save writes the run directory and then records it in the catalog. The
// returned id names both.
func (s *Store) Save(r *sim.Result, opts SaveOptions) (string, error) {
	if r.Len() == 0 {
		return "", fmt.Errorf("empty result")
	}

	id := uuid.New().String()
	runDir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         id,
		CreatedAt:  time.Now().UTC(),
		Label:      opts.Label,
		Integrator: opts.Integrator,
		Load:       r.Load,
		Lambda:     r.Lambda,
		Horizon:    r.T[r.Len()-1],
		Samples:    r.Len(),
		Steps:      r.Steps,
		Rejected:   r.Rejected,
		Params:     r.Params,
		Metrics:    r.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", fmt.Errorf("write metadata: %w", err)
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), r); err != nil {
		return "", fmt.Errorf("write series: %w", err)
	}
	if err := s.insert(meta); err != nil {
		return "", fmt.Errorf("catalog: %w", err)
	}
	return id, nil
}

func (s *Store) insert(meta RunMetadata) error {
	paramsJSON, err := json.Marshal(meta.Params)
	if err != nil {
		return err
	}
	metricsJSON, err := json.Marshal(meta.Metrics)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO runs (id, created_at, label, integrator, load, lambda, samples, horizon, params_json, metrics_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		meta.ID, meta.CreatedAt.Format(timeLayout), meta.Label, meta.Integrator,
		meta.Load, meta.Lambda, meta.Samples, meta.Horizon,
		string(paramsJSON), string(metricsJSON),
	)
	return err
}

// List returns the catalog in creation order.
func (s *Store) List() ([]RunMetadata, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, label, integrator, load, lambda, samples, horizon, params_json, metrics_json
		 FROM runs ORDER BY created_at ASC, seq ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var (
			meta        RunMetadata
			createdAt   string
			label       sql.NullString
			integrator  sql.NullString
			paramsJSON  string
			metricsJSON sql.NullString
		)
		if err := rows.Scan(&meta.ID, &createdAt, &label, &integrator, &meta.Load, &meta.Lambda,
			&meta.Samples, &meta.Horizon, &paramsJSON, &metricsJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		meta.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("run %s: created_at: %w", meta.ID, err)
		}
		meta.Label = label.String
		meta.Integrator = integrator.String
		if err := json.Unmarshal([]byte(paramsJSON), &meta.Params); err != nil {
			return nil, fmt.Errorf("run %s: params: %w", meta.ID, err)
		}
		if metricsJSON.Valid && metricsJSON.String != "" {
			if err := json.Unmarshal([]byte(metricsJSON.String), &meta.Metrics); err != nil {
				return nil, fmt.Errorf("run %s: metrics: %w", meta.ID, err)
			}
		}
		runs = append(runs, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

func (s *Store) runDir(id string) (string, error) {
	// ids are uuids; anything else could escape baseDir
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return filepath.Join(s.baseDir, id), nil
}

func (s *Store) Load(id string) (*RunMetadata, error) {
	dir, err := s.runDir(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSeries rebuilds the full result of a saved run.
func (s *Store) LoadSeries(id string) (*sim.Result, error) {
	meta, err := s.Load(id)
	if err != nil {
		return nil, err
	}
	dir, _ := s.runDir(id)

	file, err := os.Open(filepath.Join(dir, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read series: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("read series: missing header")
	}

	header := records[0]
	columns := make([][]float64, len(header))
	for i := range columns {
		columns[i] = make([]float64, 0, len(records)-1)
	}
	for line, record := range records[1:] {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("series line %d column %s: %w", line+2, header[j], err)
			}
			columns[j] = append(columns[j], v)
		}
	}

	r := &sim.Result{
		Load:     meta.Load,
		Lambda:   meta.Lambda,
		Params:   meta.Params,
		Metrics:  meta.Metrics,
		Steps:    meta.Steps,
		Rejected: meta.Rejected,
	}
	targets := map[string]*[]float64{
		sim.SeriesT:         &r.T,
		sim.SeriesIRaw:      &r.IRaw,
		sim.SeriesISub:      &r.ISub,
		sim.SeriesCoupling:  &r.Coupling,
		sim.SeriesCoherence: &r.Coherence,
		sim.SeriesWStruct:   &r.WStruct,
		sim.SeriesEDiss:     &r.EDiss,
		sim.SeriesPt:        &r.Pt,
	}
	for j, name := range header {
		if dst, ok := targets[name]; ok {
			*dst = columns[j]
			delete(targets, name)
		}
	}
	if len(targets) > 0 {
		return nil, fmt.Errorf("read series: %d columns missing", len(targets))
	}
	return r, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

func writeSeries(path string, r *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, r); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes every series of r as one column, in export order. Values
// use the shortest representation that parses back exactly.
func WriteCSV(w io.Writer, r *sim.Result) error {
	cw := csv.NewWriter(w)

	names := sim.SeriesNames()
	if err := cw.Write(names); err != nil {
		return err
	}

	series := make([][]float64, len(names))
	for j, name := range names {
		series[j], _ = r.Series(name)
	}

	row := make([]string, len(names))
	for i := 0; i < r.Len(); i++ {
		for j := range names {
			row[j] = strconv.FormatFloat(series[j][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/san-kum/sidsmp/internal/sim"
)

type ExportData struct {
	Run    RunMetadata          `json:"run"`
	Series map[string][]float64 `json:"series"`
}

func exportData(meta RunMetadata, r *sim.Result) ExportData {
	data := ExportData{
		Run:    meta,
		Series: make(map[string][]float64, len(sim.SeriesNames())),
	}
	for _, name := range sim.SeriesNames() {
		data.Series[name], _ = r.Series(name)
	}
	return data
}

// ExportJSON writes the metadata and every series of a saved run to w.
func (s *Store) ExportJSON(w io.Writer, id string) error {
	meta, err := s.Load(id)
	if err != nil {
		return err
	}
	r, err := s.LoadSeries(id)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(*meta, r))
}

// ExportCSV copies the stored series of a run to w unchanged.
func (s *Store) ExportCSV(w io.Writer, id string) error {
	dir, err := s.runDir(id)
	if err != nil {
		return err
	}
	f, err := os.Open(filepath.Join(dir, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrRunNotFound
		}
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

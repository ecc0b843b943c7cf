package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sidsmp/internal/integrators"
	"github.com/san-kum/sidsmp/internal/metrics"
	"github.com/san-kum/sidsmp/internal/model"
	"github.com/san-kum/sidsmp/internal/sim"
)

func runResult(t *testing.T, load float64) *sim.Result {
	t.Helper()
	s := sim.New(integrators.NewRK45())
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}
	cfg := sim.DefaultConfig()
	cfg.Horizon = 10
	cfg.Samples = 40

	r, err := s.Run(t.Context(), load, model.DefaultParameters(), cfg)
	require.NoError(t, err)
	return r
}

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStoreSaveLoad(t *testing.T) {
	st := openStore(t)
	result := runResult(t, 2)

	id, err := st.Save(result, SaveOptions{Label: "baseline", Integrator: "rk45"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	assert.FileExists(t, filepath.Join(st.Dir(), id, "metadata.json"))
	assert.FileExists(t, filepath.Join(st.Dir(), id, "series.csv"))
	assert.FileExists(t, filepath.Join(st.Dir(), "catalog.db"))

	meta, err := st.Load(id)
	require.NoError(t, err)
	assert.Equal(t, "baseline", meta.Label)
	assert.Equal(t, 2.0, meta.Load)
	assert.Equal(t, 40, meta.Samples)
	assert.Equal(t, 10.0, meta.Horizon)
	assert.Equal(t, model.DefaultParameters(), meta.Params)
	assert.Equal(t, result.Metrics["peak_efficiency"], meta.Metrics["peak_efficiency"])
}

func TestStoreLoadSeries(t *testing.T) {
	st := openStore(t)
	result := runResult(t, 3)

	id, err := st.Save(result, SaveOptions{Integrator: "rk45"})
	require.NoError(t, err)

	loaded, err := st.LoadSeries(id)
	require.NoError(t, err)
	require.Equal(t, result.Len(), loaded.Len())

	for _, name := range sim.SeriesNames() {
		want, _ := result.Series(name)
		got, _ := loaded.Series(name)
		assert.Equal(t, want, got, "series %s", name)
	}
	assert.Equal(t, result.Lambda, loaded.Lambda)
	assert.Equal(t, result.Steps, loaded.Steps)
}

func TestStoreList(t *testing.T) {
	st := openStore(t)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	var ids []string
	for _, load := range []float64{0, 5, 1} {
		id, err := st.Save(runResult(t, load), SaveOptions{Integrator: "rk45"})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 3)
	for i, run := range runs {
		assert.Equal(t, ids[i], run.ID)
		assert.Equal(t, "rk45", run.Integrator)
		assert.Contains(t, run.Metrics, "final_coupling")
	}
	assert.Equal(t, 5.0, runs[1].Load)
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)
	id, err := st.Save(runResult(t, 1), SaveOptions{})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(dir)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}

func TestStoreNotFound(t *testing.T) {
	st := openStore(t)

	_, err := st.Load("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.Load("../escape")
	assert.ErrorIs(t, err, ErrRunNotFound)

	err = st.ExportCSV(&bytes.Buffer{}, "not-a-uuid")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestStoreRejectsEmptyResult(t *testing.T) {
	st := openStore(t)
	_, err := st.Save(&sim.Result{}, SaveOptions{})
	assert.Error(t, err)
}

func TestExportJSON(t *testing.T) {
	st := openStore(t)
	result := runResult(t, 0)
	id, err := st.Save(result, SaveOptions{Label: "x"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, id))

	var data ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, id, data.Run.ID)
	assert.Len(t, data.Series, len(sim.SeriesNames()))
	assert.Equal(t, result.Pt, data.Series["P_t"])
}

func TestExportCSV(t *testing.T) {
	st := openStore(t)
	id, err := st.Save(runResult(t, 0), SaveOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportCSV(&buf, id))

	stored, err := os.ReadFile(filepath.Join(st.Dir(), id, "series.csv"))
	require.NoError(t, err)
	assert.Equal(t, string(stored), buf.String())

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, "t,I_raw,I_sub,coupling,C_dynamic,W_struct,E_diss,P_t", header)
}

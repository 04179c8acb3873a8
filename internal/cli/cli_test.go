package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/simreport"
	"github.com/aretw0/simreport/internal/adapters/file"
	"github.com/aretw0/simreport/internal/synth"
	"github.com/aretw0/simreport/internal/testutils"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/aretw0/simreport/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "simreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func seedRunDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "run")
	require.NoError(t, file.New("").Save(context.Background(), dir, ports.ContractRun()))
	return dir
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	path := writeConfig(t, "workers: 2\nformat: png\nlog_level: warn\n")

	cfg, err := loadConfig(CommonOptions{ConfigPath: path, Workers: 8, Format: "svg", Debug: true})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "svg", cfg.Format)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = loadConfig(CommonOptions{ConfigPath: path, Format: "gif"})
	assert.Error(t, err)

	_, err = loadConfig(CommonOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestExecuteRender_JSON(t *testing.T) {
	dir := seedRunDir(t)
	path := writeConfig(t, "width: 320\nheight: 240\n")

	var out bytes.Buffer
	err := ExecuteRender(context.Background(), RenderOptions{
		CommonOptions: CommonOptions{ConfigPath: path},
		RunDir:        dir,
		JSON:          true,
	}, &out)
	require.NoError(t, err)

	var res simreport.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, dir, res.RunID)
	assert.Len(t, res.Artifacts, 4)
	assert.FileExists(t, res.ReportPath)
}

func TestExecuteRender_PlainSummary(t *testing.T) {
	dir := seedRunDir(t)
	path := writeConfig(t, "width: 320\nheight: 240\nformat: svg\nplots_dir: charts\n")

	var out bytes.Buffer
	err := ExecuteRender(context.Background(), RenderOptions{
		CommonOptions: CommonOptions{ConfigPath: path},
		RunDir:        dir,
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "agent_trajectories.svg")
	assert.FileExists(t, filepath.Join(dir, "charts", "index.html"))
}

func TestExecuteRender_MissingRun(t *testing.T) {
	path := writeConfig(t, "")
	err := ExecuteRender(context.Background(), RenderOptions{
		CommonOptions: CommonOptions{ConfigPath: path},
		RunDir:        filepath.Join(t.TempDir(), "nope"),
	}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrMissingRunArtifact)
}

func TestExecutePull(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("sim:config", `{"POPULATION": 20}`))
	_, err := mr.Push("sim:state:history",
		`{"to_share": 1, "p_produced": 0.5}`,
		`{"to_share": 3, "share_dist": {"1": 2}}`,
	)
	require.NoError(t, err)
	require.NoError(t, mr.Set("sim:status", "ready"))
	require.NoError(t, mr.Set("sim:state:step", "2"))

	out := filepath.Join(t.TempDir(), "snap")
	path := writeConfig(t, "width: 320\nheight: 240\n")

	var buf bytes.Buffer
	err = ExecutePull(context.Background(), PullOptions{
		CommonOptions: CommonOptions{ConfigPath: path},
		RedisAddr:     mr.Addr(),
		Prefix:        "sim:",
		Out:           out,
		Render:        true,
	}, &buf)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "config.yaml"))
	assert.FileExists(t, filepath.Join(out, "output.json"))
	assert.FileExists(t, filepath.Join(out, "plots", "index.html"))
	assert.Contains(t, buf.String(), "Pulled 2 steps")

	run, err := file.New("").Load(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, []string{"status", "step", "steps"}, run.Meta.Keys)
	assert.Len(t, run.History, 2)
}

func TestExecutePull_RequiresOut(t *testing.T) {
	err := ExecutePull(context.Background(), PullOptions{RedisAddr: "127.0.0.1:1"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestServeHandler(t *testing.T) {
	runsDir := t.TempDir()
	require.NoError(t, file.New(runsDir).Save(context.Background(), "a", ports.ContractRun()))
	path := writeConfig(t, "width: 320\nheight: 240\n")

	handler, err := newServeHandler(ServeOptions{CommonOptions: CommonOptions{ConfigPath: path}, RunsDir: runsDir})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs/a/render", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rr.Body.String(), `simreport_charts_rendered_total{kind="histogram"} 1`)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestServeHandler_RedisLocks(t *testing.T) {
	mr := miniredis.RunT(t)
	runsDir, runID := testutils.SetupSyntheticRun(t, synth.Options{Seed: 3, Steps: 4, Population: 10, SampleRate: 0.5, Publishers: 2})
	path := writeConfig(t, "width: 320\nheight: 240\nworkers: 2\n")

	handler, err := newServeHandler(ServeOptions{
		CommonOptions: CommonOptions{ConfigPath: path},
		RunsDir:       runsDir,
		RedisAddr:     mr.Addr(),
		LockPrefix:    "test:",
	})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/runs/"+runID+"/render", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Empty(t, mr.Keys(), "lock released after render")

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/runs/"+runID+"/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "agent_trajectories.png")
}

func TestExecuteServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	path := writeConfig(t, "")

	done := make(chan error, 1)
	go func() {
		done <- ExecuteServe(ctx, ServeOptions{
			CommonOptions: CommonOptions{ConfigPath: path},
			RunsDir:       t.TempDir(),
			Addr:          "127.0.0.1:0",
		}, &bytes.Buffer{})
	}()
	cancel()
	assert.NoError(t, <-done)
}

func TestChainHooks(t *testing.T) {
	var calls []string
	h := chainHooks(
		domain.LifecycleHooks{OnChartSkipped: func(context.Context, *domain.ChartEvent) { calls = append(calls, "a") }},
		domain.LifecycleHooks{},
		domain.LifecycleHooks{OnChartSkipped: func(context.Context, *domain.ChartEvent) { calls = append(calls, "b") }},
	)

	h.OnChartSkipped(context.Background(), &domain.ChartEvent{})
	h.OnChartRendered(context.Background(), &domain.ChartEvent{})
	h.OnReportComposed(context.Background(), &domain.ReportEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
}

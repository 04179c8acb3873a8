package simreport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/simreport"
	"github.com/aretw0/simreport/internal/render"
	"github.com/aretw0/simreport/internal/synth"
	"github.com/aretw0/simreport/internal/testutils"
	"github.com/aretw0/simreport/pkg/adapters/memory"
	"github.com/aretw0/simreport/pkg/domain"
	"github.com/aretw0/simreport/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runConfig = `POPULATION: 20
PUBLISHER:
  BASE_BUDGET: 1.5
`

const runOutput = `{
  "meta": {"seed": 42, "steps": 3, "population": 20},
  "history": [
    {
      "sample": [{"id": 1, "values": [0.1, 0.2]}, {"id": 2, "values": [0.5, 0.5]}],
      "to_share": 2,
      "p_produced": 0.5,
      "shares": {"max": 4, "min": 0, "mean": 1.5},
      "share_dist": {"0": 10, "1": 2},
      "top_content": [[0, 3]]
    },
    {
      "sample": [{"id": 2, "values": [0.6, 0.4]}],
      "to_share": 5,
      "shares": {"max": 3, "mean": 1},
      "share_dist": {"1": 4}
    },
    {
      "sample": [{"id": 1, "values": [0.3, 0.4]}, {"id": 2, "values": [0.7, 0.3]}],
      "to_share": 1,
      "p_produced": 0.25,
      "shares": {"max": 5, "min": 1, "mean": 2},
      "share_dist": {"2": 3}
    }
  ]
}`

func writeRun(t *testing.T, dir, config, output string) {
	t.Helper()
	testutils.WriteRunDir(t, dir, map[string]string{"config.yaml": config, "output.json": output})
}

func fixedClock(ts time.Time) simreport.Option {
	return simreport.WithClock(func() time.Time { return ts })
}

func smallCharts() simreport.Option {
	opts := render.DefaultOptions()
	opts.Width, opts.Height = 320, 240
	return simreport.WithRenderOptions(opts)
}

func TestRenderReport_FullRun(t *testing.T) {
	runDir := filepath.Join(t.TempDir(), "run-1")
	writeRun(t, runDir, runConfig, runOutput)

	r, err := simreport.New(smallCharts(), fixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	require.NoError(t, err)

	res, err := r.RenderReport(context.Background(), runDir)
	require.NoError(t, err)

	plots := filepath.Join(runDir, "plots")
	assert.Equal(t, filepath.Join(plots, "index.html"), res.ReportPath)

	var files []string
	for _, a := range res.Artifacts {
		files = append(files, a.Filename)
		assert.FileExists(t, filepath.Join(plots, a.Filename))
	}
	assert.Equal(t, []string{
		"agent_trajectories.png",
		"to_share.png",
		"p_produced.png",
		"shares.png",
		"share_dist.png",
	}, files, "charts follow schema order")

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "top_content", res.Skipped[0].Channel)
	assert.Equal(t, domain.SkipOpaque, res.Skipped[0].Reason)

	html, err := os.ReadFile(res.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Generated on 2024-01-02T03:04:05Z")
	assert.Contains(t, string(html), "seed: 42, steps: 3, population: 20")
}

func TestRenderReport_Idempotent(t *testing.T) {
	runDir := t.TempDir()
	writeRun(t, runDir, runConfig, runOutput)
	ts := regexp.MustCompile(`Generated on [^<]+`)

	read := func(clock time.Time) []byte {
		r, err := simreport.New(smallCharts(), fixedClock(clock))
		require.NoError(t, err)
		res, err := r.RenderReport(context.Background(), runDir)
		require.NoError(t, err)
		data, err := os.ReadFile(res.ReportPath)
		require.NoError(t, err)
		return ts.ReplaceAll(data, nil)
	}

	first := read(time.Unix(0, 0))
	second := read(time.Unix(3600, 0))
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Join(runDir, "plots"))
	require.NoError(t, err)
	assert.Len(t, entries, 6, "five charts and the index, no leftovers")
}

func TestRenderReport_NoSampleChannel(t *testing.T) {
	runDir := t.TempDir()
	writeRun(t, runDir, "{}", `{"meta": {}, "history": [{"to_share": 1}, {"to_share": 2}]}`)

	r, err := simreport.New(smallCharts())
	require.NoError(t, err)

	res, err := r.RenderReport(context.Background(), runDir)
	require.NoError(t, err)

	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, domain.ChartScalarLine, res.Artifacts[0].Kind)
	assert.NoFileExists(t, filepath.Join(runDir, "plots", "agent_trajectories.png"))
}

func TestRenderReport_FatalErrors(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		output  string
		wantErr error
	}{
		{"missing output", runConfig, "", domain.ErrMissingRunArtifact},
		{"missing config", "", runOutput, domain.ErrMissingRunArtifact},
		{"missing history", runConfig, `{"meta": {"seed": 1}}`, domain.ErrMalformedRunArtifact},
		{"missing meta", runConfig, `{"history": [{"to_share": 1}]}`, domain.ErrMalformedRunArtifact},
		{"not json", runConfig, `{"meta":`, domain.ErrMalformedRunArtifact},
		{"no channel data", runConfig, `{"meta": {}, "history": [{}, {}]}`, domain.ErrMalformedRunArtifact},
		{"empty history", runConfig, `{"meta": {}, "history": []}`, domain.ErrMalformedRunArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runDir := t.TempDir()
			writeRun(t, runDir, tt.config, tt.output)

			r, err := simreport.New()
			require.NoError(t, err)

			_, err = r.RenderReport(context.Background(), runDir)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NoDirExists(t, filepath.Join(runDir, "plots"), "fatal errors leave no plots directory")
		})
	}
}

func TestRenderReport_MissingRunDir(t *testing.T) {
	r, err := simreport.New()
	require.NoError(t, err)

	_, err = r.RenderReport(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, domain.ErrMissingRunArtifact)
}

func TestRenderReport_FollowsLatestSymlink(t *testing.T) {
	runs := t.TempDir()
	target := filepath.Join(runs, "2024-01-01")
	writeRun(t, target, runConfig, runOutput)
	if err := os.Symlink(target, filepath.Join(runs, "latest")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r, err := simreport.New(smallCharts())
	require.NoError(t, err)

	res, err := r.RenderReport(context.Background(), filepath.Join(runs, "latest"))
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolved, "plots", "index.html"), res.ReportPath)
}

func TestRenderRun_SkipsBadChannels(t *testing.T) {
	run := &domain.Run{
		ID:   "bad",
		Meta: domain.NewMeta("steps", 2),
		History: []domain.StepRecord{
			{"to_share": "lots", "p_produced": 0.1, "share_dist": map[string]any{"0": 5.0}},
			{"p_produced": 0.2, "share_dist": map[string]any{"0": 1.0}},
		},
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r, err := simreport.New(smallCharts(), simreport.WithLogger(logger))
	require.NoError(t, err)

	plots := filepath.Join(t.TempDir(), "plots")
	res, err := r.RenderRun(context.Background(), run, plots)
	require.NoError(t, err)

	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "p_produced", res.Artifacts[0].Channel)

	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.Channel] = s.Reason
		assert.NotEmpty(t, s.Error)
	}
	assert.Equal(t, map[string]string{
		"to_share":   domain.SkipInvalid,
		"share_dist": domain.SkipEmpty,
	}, reasons)
	assert.Contains(t, logs.String(), "skipping channel")
	assert.FileExists(t, res.ReportPath)
}

func TestRenderRun_ParallelKeepsOrder(t *testing.T) {
	run := ports.ContractRun()
	run.ID = "parallel"

	sequential, err := simreport.New(smallCharts())
	require.NoError(t, err)
	parallel, err := simreport.New(smallCharts(), simreport.WithWorkers(4))
	require.NoError(t, err)

	a, err := sequential.RenderRun(context.Background(), run, filepath.Join(t.TempDir(), "plots"))
	require.NoError(t, err)
	b, err := parallel.RenderRun(context.Background(), run, filepath.Join(t.TempDir(), "plots"))
	require.NoError(t, err)

	assert.Equal(t, a.Artifacts, b.Artifacts)
	assert.Equal(t, a.Skipped, b.Skipped)
}

func TestRenderRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := simreport.New()
	require.NoError(t, err)

	_, err = r.RenderRun(ctx, ports.ContractRun(), filepath.Join(t.TempDir(), "plots"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderReport_CustomStoreAndHooks(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), "mem-run", ports.ContractRun()))
	root := t.TempDir()

	var mu sync.Mutex
	var rendered, skipped []string
	var composed *domain.ReportEvent
	hooks := domain.LifecycleHooks{
		OnChartRendered: func(_ context.Context, e *domain.ChartEvent) {
			mu.Lock()
			defer mu.Unlock()
			rendered = append(rendered, e.Channel)
		},
		OnChartSkipped: func(_ context.Context, e *domain.ChartEvent) {
			mu.Lock()
			defer mu.Unlock()
			skipped = append(skipped, e.Channel)
		},
		OnReportComposed: func(_ context.Context, e *domain.ReportEvent) {
			composed = e
		},
	}

	r, err := simreport.New(
		smallCharts(),
		simreport.WithStore(store),
		simreport.WithOutputRoot(root),
		simreport.WithPlotsDir("report"),
		simreport.WithLifecycleHooks(hooks),
		simreport.WithWorkers(2),
	)
	require.NoError(t, err)

	res, err := r.RenderReport(context.Background(), "mem-run")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "mem-run", "report", "index.html"), res.ReportPath)

	assert.ElementsMatch(t, []string{"sample", "to_share", "shares", "share_dist"}, rendered)
	assert.Empty(t, skipped)
	require.NotNil(t, composed)
	assert.Equal(t, 4, composed.Artifacts)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id":"mem-run"`)
}

func TestRenderReport_SyntheticRunWithLocker(t *testing.T) {
	opts := synth.DefaultOptions()
	opts.Steps = 5
	base, runID := testutils.SetupSyntheticRun(t, opts)

	locker := memory.NewLocker()
	r, err := simreport.New(smallCharts(), simreport.WithLocker(locker, 0), simreport.WithWorkers(4))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*simreport.Result, 3)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.RenderReport(context.Background(), filepath.Join(base, runID))
			if assert.NoError(t, err) {
				results[i] = res
			}
		}()
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Len(t, res.Artifacts, 13, "every default channel is drawn")
		require.Len(t, res.Skipped, 2)
		assert.Equal(t, results[0].Artifacts, res.Artifacts)
	}
	assert.Equal(t, 0, locker.Len())

	entries, err := os.ReadDir(filepath.Join(base, runID, "plots"))
	require.NoError(t, err)
	assert.Len(t, entries, 14, "no temp files left by concurrent renders")
}

func TestRenderReport_LockCanceled(t *testing.T) {
	runDir := t.TempDir()
	writeRun(t, runDir, runConfig, runOutput)

	resolved, err := filepath.EvalSymlinks(runDir)
	require.NoError(t, err)

	locker := memory.NewLocker()
	unlock, err := locker.Lock(context.Background(), filepath.Join(resolved, "plots"), 0)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	r, err := simreport.New(simreport.WithLocker(locker, time.Second))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.RenderReport(ctx, runDir)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NoDirExists(t, filepath.Join(runDir, "plots"))
}

func TestNew_InvalidOptions(t *testing.T) {
	opts := render.DefaultOptions()
	opts.Palette = nil
	_, err := simreport.New(simreport.WithRenderOptions(opts))
	assert.Error(t, err)

	_, err = simreport.New(simreport.WithPlotsDir(""))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.Regexp(t, `^\d+\.\d+\.\d+`, simreport.Version)
}

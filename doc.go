/*
Package simreport turns a finished simulation run into a static report: one chart per
recorded channel and an index.html that ties them to the run's metadata and
configuration.

A run is a directory holding a configuration document (config.yaml) and an output
document (output.json) with "meta" and "history". The history is a list of steps,
each mapping channel names to values. Channels are decoded according to a schema:

  - sample: per-entity positions, drawn as trajectories.
  - scalar: one number per step, drawn as a line.
  - grouped: named numbers per step (e.g. max/min/mean), one line per key.
  - histogram: integer bin counts per step, merged and normalized by step count.

Channels the schema does not know are carried through as opaque values and get no chart.

# Usage

	r, err := simreport.New(simreport.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	res, err := r.RenderReport(ctx, "runs/latest")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.ReportPath)

Runs kept elsewhere are read through a ports.RunStore (see WithStore), and
RenderRun renders an already loaded run into any directory. Renders of one run are
not coordinated unless a ports.Locker is supplied with WithLocker.

A channel that cannot be charted is skipped with a warning and listed in
Result.Skipped; only missing or malformed run documents fail the report.
*/
package simreport

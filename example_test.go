package simreport_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/simreport"
	"github.com/aretw0/simreport/pkg/adapters/memory"
	"github.com/aretw0/simreport/pkg/domain"
)

// ExampleReporter_RenderReport renders a run held in memory. Reports of runs
// that do not live in a directory are written under the output root.
func ExampleReporter_RenderReport() {
	store := memory.NewStore()
	err := store.Save(context.Background(), "demo", &domain.Run{
		Config: map[string]any{"POPULATION": 3.0},
		Meta:   domain.NewMeta("seed", 7.0, "steps", 2.0),
		History: []domain.StepRecord{
			{"to_share": 1.0, "shares": map[string]any{"max": 2.0, "min": 0.0, "mean": 1.0}},
			{"to_share": 3.0, "shares": map[string]any{"max": 4.0, "min": 1.0, "mean": 2.5}, "top_content": []any{}},
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	root, err := os.MkdirTemp("", "simreport-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(root)

	reporter, err := simreport.New(simreport.WithStore(store), simreport.WithOutputRoot(root))
	if err != nil {
		log.Fatal(err)
	}

	res, err := reporter.RenderReport(context.Background(), "demo")
	if err != nil {
		log.Fatal(err)
	}

	for _, a := range res.Artifacts {
		fmt.Println("rendered", a.Filename)
	}
	for _, s := range res.Skipped {
		fmt.Println("skipped", s.Channel, s.Reason)
	}
	// Output:
	// rendered to_share.png
	// rendered shares.png
	// skipped top_content opaque
}

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/simreport"
)

// Summary formats a report result as markdown.
func Summary(res *simreport.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Report `%s`\n\n", res.RunID)
	fmt.Fprintf(&b, "Written to `%s`.\n\n", res.ReportPath)

	if len(res.Artifacts) == 0 {
		b.WriteString("No charts were rendered.\n")
	} else {
		b.WriteString("| Channel | Chart | File |\n|---|---|---|\n")
		for _, a := range res.Artifacts {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(a.Channel), a.Kind, cell(a.Filename))
		}
	}

	if len(res.Skipped) > 0 {
		b.WriteString("\n## Skipped\n\n| Channel | Kind | Reason | Error |\n|---|---|---|---|\n")
		for _, s := range res.Skipped {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", cell(s.Channel), s.Kind, s.Reason, cell(s.Error))
		}
	}
	return b.String()
}

// PrintSummary writes the summary to w, styled by render when it is not nil.
func PrintSummary(w io.Writer, res *simreport.Result, render func(string) (string, error)) error {
	out := Summary(res)
	if render != nil {
		styled, err := render(out)
		if err != nil {
			return err
		}
		out = styled
	}
	_, err := io.WriteString(w, out)
	return err
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

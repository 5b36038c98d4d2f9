package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/organizer/internal/workflow"
)

const (
	summaryHeaderTemplateConstant = "%d repositories: %d organized, %d unchanged, %d failed"
	summaryLineTemplateConstant   = "%s %s  %s\n"
	completedLineConstant         = "🎉 Completed!"
)

// SummaryCounts tallies the repository outcomes of a run.
type SummaryCounts struct {
	Organized int
	Unchanged int
	Failed    int
}

// CountResults tallies results by outcome.
func CountResults(results workflow.Results) SummaryCounts {
	var counts SummaryCounts
	for _, result := range results {
		switch {
		case !result.Succeeded():
			counts.Failed++
		case result.NoOp():
			counts.Unchanged++
		default:
			counts.Organized++
		}
	}
	return counts
}

// RenderSummary writes one line per repository followed by the outcome totals.
func RenderSummary(writer io.Writer, results workflow.Results) error {
	palette := NewPalette(writer)
	var output strings.Builder
	output.WriteString("\n")
	for _, result := range results.Ordered() {
		switch {
		case !result.Succeeded():
			failureMessage := unknownFailureMessageConstant
			if result.Error != nil {
				failureMessage = result.Error.Error()
			}
			output.WriteString(fmt.Sprintf(summaryLineTemplateConstant, palette.Fail.Render(IconFail), result.Repository.FullName, palette.Fail.Render(failureMessage)))
		case result.NoOp():
			output.WriteString(fmt.Sprintf(summaryLineTemplateConstant, palette.Muted.Render(IconSkip), result.Repository.FullName, palette.Muted.Render(unchangedStatusConstant)))
		default:
			output.WriteString(fmt.Sprintf(summaryLineTemplateConstant, palette.Pass.Render(IconPass), result.Repository.FullName, palette.Muted.Render(formatSteps(result.Steps))))
		}
	}

	counts := CountResults(results)
	output.WriteString(palette.Bold.Render(fmt.Sprintf(summaryHeaderTemplateConstant, len(results), counts.Organized, counts.Unchanged, counts.Failed)))
	output.WriteString("\n")

	_, writeError := io.WriteString(writer, output.String())
	return writeError
}

// RenderCompleted writes the closing line of a run.
func RenderCompleted(writer io.Writer) error {
	_, writeError := fmt.Fprintf(writer, "\n%s\n", completedLineConstant)
	return writeError
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/organizer/internal/repos/shared"
)

const repositoryChoiceTemplateConstant = "%s%s (star: %d, open: %d)"

// RepositoryChoiceLabels renders one selection label per repository with the counters aligned in a column.
func RepositoryChoiceLabels(repositories []shared.Repository) []string {
	width := 0
	for _, repository := range repositories {
		width = max(width, lipgloss.Width(repository.Label()))
	}

	labels := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		label := repository.Label()
		padding := strings.Repeat(" ", width-lipgloss.Width(label))
		labels = append(labels, fmt.Sprintf(repositoryChoiceTemplateConstant, label, padding, repository.Stars, repository.OpenIssues))
	}
	return labels
}

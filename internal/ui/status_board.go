package ui

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/temirov/organizer/internal/repos/shared"
	"github.com/temirov/organizer/internal/workflow"
)

const (
	boardColumnGapConstant  = "  "
	pendingStatusConstant   = "waiting"
	unchangedStatusConstant = "nothing to change"
	completedStatusConstant = "done"
)

type rowState int

const (
	rowPending rowState = iota
	rowRunning
	rowSucceeded
	rowUnchanged
	rowFailed
)

type boardRow struct {
	repository shared.Repository
	state      rowState
	status     string
}

// StatusBoard redraws one line per repository in place as tasks progress.
// It is safe for concurrent use by the executor.
type StatusBoard struct {
	mutex        sync.Mutex
	writer       io.Writer
	palette      Palette
	rows         []boardRow
	rowIndex     map[string]int
	nameWidth    int
	drawnLines   int
	redrawInline bool
}

// NewStatusBoard prepares a board listing the repositories in the given order.
// When redrawInline is false every update appends a fresh board instead of moving the cursor.
func NewStatusBoard(writer io.Writer, repositories []shared.Repository, redrawInline bool) *StatusBoard {
	board := &StatusBoard{
		writer:       writer,
		palette:      NewPalette(writer),
		rows:         make([]boardRow, 0, len(repositories)),
		rowIndex:     make(map[string]int, len(repositories)),
		redrawInline: redrawInline,
	}
	for _, repository := range repositories {
		if _, exists := board.rowIndex[repository.FullName]; exists {
			continue
		}
		board.rowIndex[repository.FullName] = len(board.rows)
		board.rows = append(board.rows, boardRow{repository: repository, state: rowPending, status: pendingStatusConstant})
		board.nameWidth = max(board.nameWidth, lipgloss.Width(repository.FullName))
	}
	return board
}

// RepositoryStarted implements workflow.ProgressObserver.
func (board *StatusBoard) RepositoryStarted(repository shared.Repository) {
	board.update(repository, rowRunning, "")
}

// RepositoryProgress implements workflow.ProgressObserver.
func (board *StatusBoard) RepositoryProgress(repository shared.Repository, status string) {
	board.update(repository, rowRunning, status)
}

// RepositoryCompleted implements workflow.ProgressObserver.
func (board *StatusBoard) RepositoryCompleted(repository shared.Repository, result workflow.RunResult) {
	switch {
	case !result.Succeeded():
		failureMessage := unknownFailureMessageConstant
		if result.Error != nil {
			failureMessage = result.Error.Error()
		}
		board.update(repository, rowFailed, failureMessage)
	case result.NoOp():
		board.update(repository, rowUnchanged, unchangedStatusConstant)
	default:
		board.update(repository, rowSucceeded, completedStatusConstant)
	}
}

// Render returns the current board without cursor control sequences.
func (board *StatusBoard) Render() string {
	board.mutex.Lock()
	defer board.mutex.Unlock()
	return strings.Join(board.renderLines(), "\n")
}

func (board *StatusBoard) update(repository shared.Repository, state rowState, status string) {
	board.mutex.Lock()
	defer board.mutex.Unlock()

	index, known := board.rowIndex[repository.FullName]
	if !known {
		index = len(board.rows)
		board.rowIndex[repository.FullName] = index
		board.rows = append(board.rows, boardRow{repository: repository})
		board.nameWidth = max(board.nameWidth, lipgloss.Width(repository.FullName))
	}
	board.rows[index].state = state
	if len(status) > 0 || state != rowRunning {
		board.rows[index].status = status
	}
	board.draw()
}

func (board *StatusBoard) draw() {
	if board.writer == nil {
		return
	}
	var output strings.Builder
	if board.redrawInline && board.drawnLines > 0 {
		output.WriteString(ansi.CursorUp(board.drawnLines))
	}
	lines := board.renderLines()
	for _, line := range lines {
		if board.redrawInline {
			output.WriteString(ansi.EraseEntireLine)
			output.WriteString("\r")
		}
		output.WriteString(line)
		output.WriteString("\n")
	}
	board.drawnLines = len(lines)
	_, _ = io.WriteString(board.writer, output.String())
}

func (board *StatusBoard) renderLines() []string {
	lines := make([]string, 0, len(board.rows))
	for _, row := range board.rows {
		name := row.repository.FullName + strings.Repeat(" ", board.nameWidth-lipgloss.Width(row.repository.FullName))
		lines = append(lines, board.renderIcon(row.state)+" "+name+boardColumnGapConstant+board.palette.Muted.Render(row.status))
	}
	return lines
}

func (board *StatusBoard) renderIcon(state rowState) string {
	switch state {
	case rowRunning:
		return board.palette.Accent.Render(IconRunning)
	case rowSucceeded:
		return board.palette.Pass.Render(IconPass)
	case rowUnchanged:
		return board.palette.Muted.Render(IconSkip)
	case rowFailed:
		return board.palette.Fail.Render(IconFail)
	default:
		return board.palette.Muted.Render(IconPending)
	}
}

var _ workflow.ProgressObserver = (*StatusBoard)(nil)

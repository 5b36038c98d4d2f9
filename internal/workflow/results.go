package workflow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/temirov/organizer/internal/actions"
	"github.com/temirov/organizer/internal/repos/shared"
)

const stepStringTemplateConstant = "%s:%s"

// RunStatus is the final state of one repository task.
type RunStatus string

// Repository task states.
const (
	RunSucceeded RunStatus = RunStatus("succeeded")
	RunFailed    RunStatus = RunStatus("failed")
)

// StepStatus describes what happened to one action of a repository chain.
type StepStatus string

// Step states.
const (
	StepApplied StepStatus = StepStatus("applied")
	StepSkipped StepStatus = StepStatus("skipped")
	StepFailed  StepStatus = StepStatus("failed")
	StepNotRun  StepStatus = StepStatus("not-run")
)

// StepResult pairs an action kind with what it did.
type StepResult struct {
	Kind   actions.Kind
	Status StepStatus
}

// String renders the step as kind:status.
func (step StepResult) String() string {
	return fmt.Sprintf(stepStringTemplateConstant, step.Kind, step.Status)
}

// RunResult is the immutable record of one repository task.
type RunResult struct {
	Repository shared.Repository
	Status     RunStatus
	Error      error
	Steps      []StepResult
}

// Succeeded reports whether every step finished without error.
func (result RunResult) Succeeded() bool {
	return result.Status == RunSucceeded
}

// NoOp reports whether the task succeeded without applying any step.
func (result RunResult) NoOp() bool {
	if !result.Succeeded() {
		return false
	}
	for _, step := range result.Steps {
		if step.Status != StepSkipped {
			return false
		}
	}
	return true
}

// Results maps repository full names to their run results.
type Results map[string]RunResult

// Ordered returns every result sorted by repository full name.
func (results Results) Ordered() []RunResult {
	fullNames := make([]string, 0, len(results))
	for fullName := range results {
		fullNames = append(fullNames, fullName)
	}
	sort.Strings(fullNames)

	ordered := make([]RunResult, 0, len(fullNames))
	for _, fullName := range fullNames {
		ordered = append(ordered, results[fullName])
	}
	return ordered
}

// Failures returns the failed results sorted by repository full name.
func (results Results) Failures() []RunResult {
	failures := make([]RunResult, 0)
	for _, result := range results.Ordered() {
		if !result.Succeeded() {
			failures = append(failures, result)
		}
	}
	return failures
}

// Err joins every repository failure, or returns nil when all repositories succeeded.
func (results Results) Err() error {
	failures := results.Failures()
	if len(failures) == 0 {
		return nil
	}
	failureErrors := make([]error, 0, len(failures))
	for _, failure := range failures {
		failureErrors = append(failureErrors, failure.Error)
	}
	return errors.Join(failureErrors...)
}

package organize

import "fmt"

const runFailedTemplateConstant = "%d of %d repositories failed: %v"

// RunFailedError reports that at least one repository task failed.
type RunFailedError struct {
	Failed int
	Total  int
	Cause  error
}

// Error summarizes the failed repositories.
func (runError RunFailedError) Error() string {
	return fmt.Sprintf(runFailedTemplateConstant, runError.Failed, runError.Total, runError.Cause)
}

// Unwrap exposes the joined repository failures.
func (runError RunFailedError) Unwrap() error {
	return runError.Cause
}

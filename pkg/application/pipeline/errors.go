package pipeline

import "fmt"

// Stage names reported by StageError
const (
	StageFetchItems     = "fetch items"
	StageFetchBatches   = "fetch batches"
	StageDecodeItems    = "decode items"
	StageDecodeBatches  = "decode batches"
	StageSelectProduct  = "select product"
	StageBuildCharts    = "build charts"
	StageRenderTemplate = "render template"
)

// StageError tells which step of a render failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Wrap attaches the stage to err, or returns nil
func Wrap(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// SelectionError reports a product that does not occur in the batch data
type SelectionError struct {
	Product string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("unknown product %q", e.Product)
}

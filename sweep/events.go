package sweep

import (
	"fmt"

	"github.com/martinhath/comere/executor"
)

// EventKind tags orchestrator progress events.
type EventKind int

const (
	RunStarted EventKind = iota
	RunFinished
	Merged
	Plotted
	SweepDone
	SweepAborted
)

// Event is one progress notification from a running sweep. Completed
// and Total count executor runs across the whole sweep.
type Event struct {
	Kind      EventKind
	Params    executor.Params // set for RunStarted/RunFinished
	Threads   int             // set for Merged/Plotted
	Err       error           // set for SweepAborted
	Completed int
	Total     int
}

func (e Event) String() string {
	switch e.Kind {
	case RunStarted:
		return fmt.Sprintf("running %s (%d/%d)", e.Params, e.Completed+1, e.Total)
	case RunFinished:
		return fmt.Sprintf("finished %s (%d/%d)", e.Params, e.Completed, e.Total)
	case Merged:
		return fmt.Sprintf("merged t=%d", e.Threads)
	case Plotted:
		return fmt.Sprintf("plotted t=%d", e.Threads)
	case SweepDone:
		return "sweep done"
	case SweepAborted:
		return fmt.Sprintf("sweep aborted: %v", e.Err)
	}
	return "unknown event"
}

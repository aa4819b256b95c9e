package core

// Agent defines the interface every processing unit in PromptPipe
// implements: a named text-transform step that reads and writes the shared
// run state.
//
// Implementations must:
//   - Respect cancellation of the run's ambient context
//   - Mutate state only through the provided Run
//   - Return an error (without writing their output) when they cannot
//     produce a result, leaving earlier agents' outputs intact
type Agent interface {
	Name() string
	Description() string
	Run(run *Run) error
}

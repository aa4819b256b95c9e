package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/promptpipe/promptpipe/core"
	"github.com/promptpipe/promptpipe/oracle"
	"github.com/stretchr/testify/assert"
)

func TestNewSequential(t *testing.T) {
	child1 := NewMockAgent("Child 1")
	child2 := NewMockAgent("Child 2")

	seq := NewSequential("Sequential Agent", child1, child2)

	assert.NotNil(t, seq)
	assert.Equal(t, "Sequential Agent", seq.Name())
	assert.Len(t, seq.Children(), 2)
	assert.Equal(t, child1, seq.Children()[0])
	assert.Equal(t, child2, seq.Children()[1])
}

func TestSequential_Run_Success(t *testing.T) {
	child1 := NewMockAgent("Child 1")
	child2 := NewMockAgent("Child 2")
	child3 := NewMockAgent("Child 3")

	seq := NewSequential("Sequential Agent", child1, child2, child3)
	run := newTestRun()

	child1.On("Run", run).Return(nil)
	child2.On("Run", run).Return(nil)
	child3.On("Run", run).Return(nil)

	err := seq.Run(run)

	assert.NoError(t, err)
	child1.AssertExpectations(t)
	child2.AssertExpectations(t)
	child3.AssertExpectations(t)
}

func TestSequential_Run_FirstChildError(t *testing.T) {
	child1 := NewMockAgent("Child 1")
	child2 := NewMockAgent("Child 2")

	seq := NewSequential("Sequential Agent", child1, child2)
	run := newTestRun()

	child1.On("Run", run).Return(errors.New("child failed"))

	err := seq.Run(run)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Child 1")
	child1.AssertExpectations(t)
	child2.AssertNotCalled(t, "Run", run)
}

func TestSequential_Run_NoChildren(t *testing.T) {
	seq := NewSequential("Empty")

	assert.NoError(t, seq.Run(newTestRun()))
}

func TestSequential_Run_ContextCancelled(t *testing.T) {
	child := NewMockAgent("Child")
	seq := NewSequential("Sequential Agent", child)

	sess := core.NewSession("s")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run := core.NewRun(ctx, sess.ID, "r", "", sess, core.NewState(), 0, nil)

	err := seq.Run(run)

	assert.ErrorIs(t, err, context.Canceled)
	child.AssertNotCalled(t, "Run", run)
}

// newTicketPipeline builds the three-step support ticket pipeline with one
// recording stub oracle per step answering "<agentName>-result".
func newTicketPipeline(t *testing.T, calls *[]string, failAt string) *Sequential {
	t.Helper()

	stage := func(name, template, outputKey string) *LLM {
		o := oracle.Func(func(_ context.Context, prompt string) (string, error) {
			*calls = append(*calls, name)
			if name == failAt {
				return "", errors.New("model unavailable")
			}
			return name + "-result", nil
		})
		return NewLLM(name, o, NewInstructionFromText(template),
			func(opts *LLMOptions) { opts.OutputKey = outputKey })
	}

	return NewSequential("SupportTicketPipeline",
		stage("TicketClassifierAgent", "Classify this support ticket:\n{user_input}", "ticket_category"),
		stage("TicketPriorityAgent", "Assess priority.\n\nTicket Category:\n{ticket_category}", "ticket_priority"),
		stage("ResolutionRecommenderAgent",
			"Recommend resolution steps.\n\nTicket Category:\n{ticket_category}\n\nTicket Priority:\n{ticket_priority}",
			"resolution_recommendation"),
	)
}

func TestSequential_Run_TicketPipeline(t *testing.T) {
	var calls []string
	pipeline := newTicketPipeline(t, &calls, "")

	run := newTestRun("user_input", "My app crashes on launch")
	err := pipeline.Run(run)

	assert.NoError(t, err)

	// One oracle call per step, in declared order.
	assert.Equal(t, []string{"TicketClassifierAgent", "TicketPriorityAgent", "ResolutionRecommenderAgent"}, calls)

	// Outputs present, keyed in creation order after the seeded input.
	assert.Equal(t,
		[]string{"user_input", "ticket_category", "ticket_priority", "resolution_recommendation"},
		run.State.Keys())

	category, _ := run.Value("ticket_category")
	priority, _ := run.Value("ticket_priority")
	recommendation, _ := run.Value("resolution_recommendation")
	assert.Equal(t, "TicketClassifierAgent-result", category)
	assert.Equal(t, "TicketPriorityAgent-result", priority)
	assert.Equal(t, "ResolutionRecommenderAgent-result", recommendation)

	// The visible reply is the last step's output.
	assert.Equal(t, "ResolutionRecommenderAgent-result", run.Reply())
}

func TestSequential_Run_MiddleStepFails(t *testing.T) {
	var calls []string
	pipeline := newTicketPipeline(t, &calls, "TicketPriorityAgent")

	run := newTestRun("user_input", "My app crashes on launch")
	err := pipeline.Run(run)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TicketPriorityAgent")

	var oerr *core.OracleError
	assert.True(t, errors.As(err, &oerr))
	assert.Equal(t, "TicketPriorityAgent", oerr.Agent)

	// Step 1's output survives; steps 2 and 3 never wrote theirs, and step 3
	// was never invoked.
	assert.True(t, run.State.Has("ticket_category"))
	assert.False(t, run.State.Has("ticket_priority"))
	assert.False(t, run.State.Has("resolution_recommendation"))
	assert.Equal(t, []string{"TicketClassifierAgent", "TicketPriorityAgent"}, calls)
}

func TestSequential_Run_DeterministicWithStub(t *testing.T) {
	stub := oracle.NewStub().WithResponse("Echo: hi", "fixed answer")
	single := NewSequential("Single",
		NewLLM("Echo", stub, NewInstructionFromText("Echo: {user_input}"),
			func(o *LLMOptions) { o.OutputKey = "echo" }),
	)

	first := newTestRun("user_input", "hi")
	assert.NoError(t, single.Run(first))

	second := newTestRun("user_input", "hi")
	assert.NoError(t, single.Run(second))

	assert.Equal(t, first.Reply(), second.Reply())
	assert.Equal(t, "fixed answer", second.Reply())
}

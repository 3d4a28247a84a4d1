// internal/models/outcome.go
package models

type ResultKind string

const (
	ResultRecipes ResultKind = "recipes"
	ResultCartAck ResultKind = "cart_ack"
	ResultEmpty   ResultKind = "empty"
)

// Result is the structured payload of a dispatched action.
type Result interface {
	Kind() ResultKind
	isResult()
}

// RecipeResult carries recipe matches. An empty slice means the query ran and
// found nothing.
type RecipeResult struct {
	Recipes []Recipe `json:"recipes"`
}

// CartAck acknowledges a cart mutation.
type CartAck struct {
	Action   string `json:"action"`
	Affected int    `json:"affected"`
}

// EmptyResult is used when the action has no domain payload.
type EmptyResult struct{}

func (RecipeResult) Kind() ResultKind { return ResultRecipes }
func (CartAck) Kind() ResultKind      { return ResultCartAck }
func (EmptyResult) Kind() ResultKind  { return ResultEmpty }

func (RecipeResult) isResult() {}
func (CartAck) isResult()      {}
func (EmptyResult) isResult()  {}

// ActionOutcome is what the dispatcher hands to the assistant runner.
// Instruction is a directive for the assistant, never user-facing text.
type ActionOutcome struct {
	Result      Result `json:"result"`
	Instruction string `json:"instruction"`
}

// AttachedRecipes returns the recipes to attach to the assistant turn, if any.
func (o *ActionOutcome) AttachedRecipes() []Recipe {
	if o == nil {
		return nil
	}
	if rr, ok := o.Result.(RecipeResult); ok {
		return rr.Recipes
	}
	return nil
}

// RunStatus of an assistant run
type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunFailed     RunStatus = "failed"
)

// IsTerminal reports whether no further transition can occur.
func (s RunStatus) IsTerminal() bool {
	return s == RunCompleted || s == RunFailed
}

// AssistantRun is one asynchronous assistant invocation bound to a thread.
type AssistantRun struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Status   RunStatus `json:"status"`
}

// ThreadMessage is one entry of an assistant thread.
type ThreadMessage struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	RunID string `json:"run_id"`
	Text  string `json:"text"`
}

// AssistantSpec describes the assistant created at session bootstrap.
type AssistantSpec struct {
	Name         string `json:"name"`
	Instructions string `json:"instructions"`
	Model        string `json:"model"`
}

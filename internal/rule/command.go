package rule

import "github.com/talgya/openglassbox/internal/resource"

// Command is one step of a rule body. Validate must be pure — it may read
// state but never mutate it — so that a rule can abort cleanly if any
// command in its body fails (§4.4 two-phase execution).
type Command interface {
	Validate(ctx *Context) bool
	Execute(ctx *Context)
}

// AddCommand adds Amount to Target, saturating at capacity.
type AddCommand struct {
	Target Value
	Amount uint32
}

func (c AddCommand) Validate(ctx *Context) bool { return c.Target.CanAdd(ctx, c.Amount) }
func (c AddCommand) Execute(ctx *Context)        { c.Target.Add(ctx, c.Amount) }

// RemoveCommand removes Amount from Target; validation fails if Target
// holds less than Amount.
type RemoveCommand struct {
	Target Value
	Amount uint32
}

func (c RemoveCommand) Validate(ctx *Context) bool { return c.Target.CanRemove(ctx, c.Amount) }
func (c RemoveCommand) Execute(ctx *Context)        { c.Target.Remove(ctx, c.Amount) }

// Cmp is a comparison operator for TestCommand.
type Cmp uint8

const (
	CmpEq Cmp = iota
	CmpGt
	CmpLt
)

// TestCommand is a pure predicate gating the rest of the rule's batch; it
// never mutates state, even on success.
type TestCommand struct {
	Target Value
	Op     Cmp
	Amount uint32
}

func (c TestCommand) Validate(ctx *Context) bool {
	got := c.Target.Get(ctx)
	switch c.Op {
	case CmpEq:
		return got == c.Amount
	case CmpGt:
		return got > c.Amount
	case CmpLt:
		return got < c.Amount
	}
	return false
}

func (c TestCommand) Execute(ctx *Context) {} // pure predicate, no-op

// AgentCommand spawns an agent from the firing unit, searching for a unit
// accepting TargetName with Payload. TargetName doubles as both the
// "target_name" an agent searches for and the literal unit name following
// "to" in the DSL (§4.4, §4.8) — in this engine they are the same string.
type AgentCommand struct {
	AgentTypeName string
	TargetName    string
	Payload       *resource.Bag
}

func (c AgentCommand) Validate(ctx *Context) bool {
	return ctx.Unit != nil && ctx.Unit.HasWays()
}

func (c AgentCommand) Execute(ctx *Context) {
	ctx.City.SpawnAgent(c.AgentTypeName, ctx.Unit.NodeID(), c.TargetName, c.Payload.Clone())
}

// FireCommands runs the two-phase validate-then-execute pass over body, in
// reverse declaration order for both phases (§4.4, §4.5, §9). Returns false
// without any side effects if any command fails validation.
func FireCommands(body []Command, ctx *Context) bool {
	for i := len(body) - 1; i >= 0; i-- {
		if !body[i].Validate(ctx) {
			return false
		}
	}
	for i := len(body) - 1; i >= 0; i-- {
		body[i].Execute(ctx)
	}
	return true
}

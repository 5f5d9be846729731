package cofrin

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagodosanjos/cofrin/goal"
	"github.com/thiagodosanjos/cofrin/id"
	"github.com/thiagodosanjos/cofrin/types"
)

// GoalInput carries the caller-supplied fields for a new savings goal.
type GoalInput struct {
	Name         string
	TargetAmount decimal.Decimal
	Deadline     *time.Time
}

// CreateGoal creates a new savings goal. Progress accrues automatically
// from completed transactions carrying the goal's ID.
func (e *Engine) CreateGoal(ctx context.Context, userID id.ID, in GoalInput) (*goal.Goal, error) {
	if in.Name == "" {
		return nil, ValidationError{Field: "name", Message: "must not be empty"}
	}
	if !in.TargetAmount.IsPositive() {
		return nil, ValidationError{Field: "target_amount", Message: "must be positive"}
	}

	g := &goal.Goal{
		Entity:        types.NewEntity(),
		ID:            id.NewGoalID(),
		UserID:        userID,
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
	}

	if err := e.store.CreateGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetGoal fetches one goal.
func (e *Engine) GetGoal(ctx context.Context, userID, goalID id.ID) (*goal.Goal, error) {
	return e.store.GetGoal(ctx, userID, goalID)
}

// ListGoals returns all of the user's goals.
func (e *Engine) ListGoals(ctx context.Context, userID id.ID) ([]*goal.Goal, error) {
	return e.store.ListGoals(ctx, userID)
}

// UpdateGoal persists caller edits to a goal. CurrentAmount is owned by the
// transaction lifecycle and carried over from the stored row.
func (e *Engine) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	current, err := e.store.GetGoal(ctx, g.UserID, g.ID)
	if err != nil {
		return err
	}
	g.CurrentAmount = current.CurrentAmount
	g.Touch()
	return e.store.UpdateGoal(ctx, g)
}

// DeleteGoal removes a goal. Transactions referencing it keep their goal ID
// as a dangling reference; they no longer move any progress.
func (e *Engine) DeleteGoal(ctx context.Context, userID, goalID id.ID) error {
	return e.store.DeleteGoal(ctx, userID, goalID)
}

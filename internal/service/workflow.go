package service

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"

	"vehicle-repair-service/internal/metrics"
	"vehicle-repair-service/internal/model"
	"vehicle-repair-service/internal/repository"
)

// Guard inspects a subject and returns a warning when the transition must
// not happen. Guards never write.
type Guard[E any] func(subject E) *Notice

type Transition[S ~string, E any] struct {
	From   []S
	To     S
	Guards []Guard[E]
}

// Workflow is a (stage, action) -> stage table with guards evaluated in
// order.
type Workflow[S ~string, E any] struct {
	entity      model.EntityType
	transitions map[string]Transition[S, E]
}

func NewWorkflow[S ~string, E any](entity model.EntityType, transitions map[string]Transition[S, E]) *Workflow[S, E] {
	return &Workflow[S, E]{entity: entity, transitions: transitions}
}

// Next resolves action from current. An unknown action is ErrInvalidInput,
// an action not allowed from current is ErrInvalidStatus, and a failed guard
// returns its notice with current unchanged.
func (w *Workflow[S, E]) Next(action string, current S, subject E) (S, *Notice, error) {
	t, ok := w.transitions[action]
	if !ok {
		metrics.ObserveTransition(string(w.entity), action, metrics.ResultRejected)
		return current, nil, ErrInvalidInput
	}
	if !slices.Contains(t.From, current) {
		metrics.ObserveTransition(string(w.entity), action, metrics.ResultRejected)
		return current, nil, ErrInvalidStatus
	}
	for _, guard := range t.Guards {
		if notice := guard(subject); notice != nil {
			metrics.ObserveTransition(string(w.entity), action, metrics.ResultBlocked)
			metrics.ObserveNotice(string(w.entity), string(notice.Type))
			return current, notice, nil
		}
	}
	metrics.ObserveTransition(string(w.entity), action, metrics.ResultApplied)
	return t.To, nil, nil
}

// Actions lists the actions available from current, sorted.
func (w *Workflow[S, E]) Actions(current S) []string {
	out := make([]string, 0)
	for action, t := range w.transitions {
		if slices.Contains(t.From, current) {
			out = append(out, action)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Workflow[S, E]) Entity() model.EntityType {
	return w.entity
}

func recordStage(ctx context.Context, tx *repository.Repositories, entity model.EntityType, id uuid.UUID, action, oldStage, newStage string, principal model.Principal) error {
	return tx.StageLogs.Log(ctx, &model.StageLog{
		EntityType: entity,
		EntityID:   id,
		Action:     action,
		OldStage:   oldStage,
		NewStage:   newStage,
		ChangedBy:  &principal.UserID,
	})
}

package plan

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/planweave/planweave/internal/errors"
)

// Decode checks a raw generation result against the Plan structural shape
// and returns the decoded plan. Shape violations (a non-object value,
// wrong field types, an empty id or description) fail with PLAN-001.
// Decode does not validate the dependency graph; call Validate for that.
func Decode(raw json.RawMessage) (*Plan, error) {
	var p Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodePlanMalformed, "value does not match the plan shape", err)
	}

	for i, task := range p.Tasks {
		if strings.TrimSpace(task.ID) == "" {
			return nil, errors.Newf(errors.ErrCodePlanMalformed, "task at index %d has an empty id", i)
		}
		if strings.TrimSpace(task.Description) == "" {
			return nil, errors.Newf(errors.ErrCodePlanMalformed, "task %q has an empty description", task.ID)
		}
	}

	return &p, nil
}

// Validate checks the plan's graph invariants: pairwise-distinct task ids,
// referentially closed dependencies, and an acyclic dependency relation.
// An invalid plan is rejected, never repaired.
func (p *Plan) Validate() error {
	taskIDs := make(map[string]bool, len(p.Tasks))
	for i, task := range p.Tasks {
		if taskIDs[task.ID] {
			return errors.Newf(errors.ErrCodePlanDuplicateID,
				"duplicate task id %q at index %d", task.ID, i)
		}
		taskIDs[task.ID] = true
	}

	for _, task := range p.Tasks {
		for _, depID := range task.Dependencies {
			if !taskIDs[depID] {
				return errors.Newf(errors.ErrCodePlanDanglingDependency,
					"task %q depends on %q, which does not exist in the plan", task.ID, depID)
			}
		}
	}

	return p.checkCycles()
}

// checkCycles runs a depth-first traversal with three-color marking:
// unvisited, in progress (on the current stack), and done. A dependency
// edge back to an in-progress task is a cycle.
func (p *Plan) checkCycles() error {
	graph := make(map[string][]string, len(p.Tasks))
	for _, task := range p.Tasks {
		graph[task.ID] = task.Dependencies
	}

	visited := make(map[string]bool, len(p.Tasks))
	inProgress := make(map[string]bool)

	var visit func(id string, path []string) error
	visit = func(id string, path []string) error {
		visited[id] = true
		inProgress[id] = true
		path = append(path, id)

		for _, dep := range graph[id] {
			if inProgress[dep] {
				cycle := append(path, dep)
				return errors.Newf(errors.ErrCodePlanCyclicDependency,
					"cyclic dependency: %s", strings.Join(cycle, " -> "))
			}
			if !visited[dep] {
				if err := visit(dep, path); err != nil {
					return err
				}
			}
		}

		inProgress[id] = false
		return nil
	}

	for _, task := range p.Tasks {
		if !visited[task.ID] {
			if err := visit(task.ID, nil); err != nil {
				return err
			}
		}
	}

	return nil
}

// String renders a short human-readable summary, used in log lines.
func (p *Plan) String() string {
	return fmt.Sprintf("plan with %d tasks", len(p.Tasks))
}

// Package plan defines the task-plan data model a generation must produce
// and the validation pass that proves the result is a well-formed
// dependency graph. Validation is pure: no I/O, no side effects, and a
// valid plan passes through unchanged.
package plan

// Task is a single unit of work in a plan.
type Task struct {
	// ID uniquely identifies the task within its plan.
	ID string `json:"id"`

	// Description states what the task does.
	Description string `json:"description"`

	// Tools names the tools the task needs, in order. May be empty.
	Tools []string `json:"tools"`

	// Dependencies references other task ids in the same plan that must
	// complete first.
	Dependencies []string `json:"dependencies"`

	// Optional marks tasks the goal can be met without.
	Optional bool `json:"optional"`
}

// Plan is an ordered sequence of tasks whose dependency relation forms a
// directed acyclic graph over task ids.
type Plan struct {
	Tasks []Task `json:"tasks"`
}

// TaskByID returns the task with the given id, or nil.
func (p *Plan) TaskByID(id string) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

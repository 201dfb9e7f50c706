package plan

import "github.com/planweave/planweave/internal/schema"

// Schema returns the structural description a generated plan must conform
// to. The optional flag is deliberately absent from the required list so
// backends may omit it; decoding defaults it to false.
func Schema() *schema.Definition {
	task := schema.Object(map[string]*schema.Definition{
		"id":           schema.String("Unique task identifier"),
		"description":  schema.String("What the task accomplishes"),
		"tools":        schema.Array(schema.String("Tool name")),
		"dependencies": schema.Array(schema.String("Id of a task that must complete first")),
		"optional":     schema.Boolean("Whether the goal can be met without this task"),
	}, "id", "description", "tools", "dependencies")

	return schema.Object(map[string]*schema.Definition{
		"tasks": schema.Array(task),
	}, "tasks")
}

package cmd

import (
	"strings"
	"testing"

	"github.com/planweave/planweave/internal/plan"
)

func TestRenderPlan(t *testing.T) {
	p := &plan.Plan{Tasks: []plan.Task{
		{ID: "research", Description: "Collect sources", Tools: []string{"search", "browser"}},
		{ID: "draft", Description: "Write the draft", Dependencies: []string{"research"}},
		{ID: "review", Description: "Proofread", Optional: true},
	}}

	out := renderPlan("Write a report", p)

	for _, want := range []string{
		"Write a report",
		"3 task(s)",
		"research",
		"Collect sources",
		"tools: search, browser",
		"depends on: research",
		"(optional)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("renderPlan() missing %q in output:\n%s", want, out)
		}
	}
}

func TestRenderPlanNumbersTasks(t *testing.T) {
	p := &plan.Plan{Tasks: []plan.Task{
		{ID: "a", Description: "first"},
		{ID: "b", Description: "second"},
	}}

	out := renderPlan("goal", p)
	if !strings.Contains(out, "1. ") || !strings.Contains(out, "2. ") {
		t.Errorf("renderPlan() tasks not numbered:\n%s", out)
	}
}

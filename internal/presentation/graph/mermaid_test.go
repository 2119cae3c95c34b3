package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/airdesk/internal/presentation/graph"
	"github.com/aretw0/airdesk/internal/runtime"
	"github.com/aretw0/airdesk/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		transitions []domain.Transition
		contains    []string
	}{
		{
			name: "Shapes",
			contains: []string{
				"none((\"none\"))",
				"awaiting_date[/\"awaiting_date\"/]",
				"awaiting_from[\"awaiting_from\"]",
			},
		},
		{
			name: "Command Edge Is Dotted",
			transitions: []domain.Transition{
				{From: domain.StageNone, To: domain.StageAwaitingCancelID, Trigger: "cancel", Command: true},
			},
			contains: []string{"none -. \"cancel\" .-> awaiting_cancel_id"},
		},
		{
			name: "Trigger Escaping",
			transitions: []domain.Transition{
				{From: domain.StageAwaitingDate, To: domain.StageNone, Trigger: `say "hi"`},
			},
			contains: []string{"awaiting_date -- \"say 'hi'\" --> none"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.transitions, runtime.Exclusive, nil)
			assert.True(t, strings.HasPrefix(got, "graph TD\n"))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	got := graph.GenerateMermaid(runtime.Transitions(), runtime.Exclusive, &graph.Overlay{Current: domain.StageConfirmingCity})

	assert.Contains(t, got, "class confirming_city current;")
	// Every stage is declared exactly once.
	for _, s := range domain.Stages {
		declarations := strings.Count(got, "    "+s.Label()+"[") + strings.Count(got, "    "+s.Label()+"((")
		assert.Equal(t, 1, declarations, s.Label())
	}
}

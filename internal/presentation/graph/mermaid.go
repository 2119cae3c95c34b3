package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/airdesk/pkg/domain"
)

// Overlay contains session data to highlight on the diagram.
type Overlay struct {
	Current domain.Stage
}

// GenerateMermaid produces a Mermaid flowchart of the dialogue stages.
// Shapes:
// - Idle: ((Circle))
// - Stages waiting for raw input (exclusive): [/Parallelogram/]
// - Default: [Rectangle]
// Command edges are dotted. The overlay marks the session's current stage.
func GenerateMermaid(transitions []domain.Transition, exclusive func(domain.Stage) bool, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	declared := make(map[domain.Stage]bool)
	declare := func(s domain.Stage) {
		if declared[s] {
			return
		}
		declared[s] = true

		opener, closer := "[", "]"
		switch {
		case s.IsIdle():
			opener, closer = "((", "))"
		case exclusive != nil && exclusive(s):
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(s), opener, s.Label(), closer)
	}

	for _, s := range domain.Stages {
		declare(s)
	}

	for _, t := range transitions {
		declare(t.From)
		declare(t.To)

		label := strings.ReplaceAll(t.Trigger, "\"", "'")
		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if t.Command {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(t.From), arrow, nodeID(t.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.Current))
	}

	return sb.String()
}

func nodeID(s domain.Stage) string {
	return strings.ReplaceAll(s.Label(), "-", "_")
}

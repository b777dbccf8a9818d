package overlay

import (
	"encoding/json"
	"fmt"
)

// editStep is a single action in an edit script.
type editStep struct {
	Action string   `json:"action"`
	Source NodeID   `json:"source,omitempty"`
	Target NodeID   `json:"target,omitempty"`
	Intent string   `json:"intent,omitempty"`
	IDs    []NodeID `json:"ids,omitempty"`
	Name   string   `json:"name,omitempty"`
}

// editScript is the top-level JSON structure for an edit script.
type editScript struct {
	Steps []editStep `json:"steps"`
}

// StepResult reports the outcome of one script step.
type StepResult struct {
	Index   int
	Action  string
	Applied bool
}

// EditScript is a sequence of layer-panel edits applied to a document in
// order, for batch edits from the command line and for regression tests.
type EditScript struct {
	steps []editStep
}

// LoadEditScript parses a JSON edit script:
//
//	{"steps": [
//	  {"action": "drop", "source": "a", "target": "b", "intent": "into"},
//	  {"action": "root", "source": "c"},
//	  {"action": "delete", "source": "d"},
//	  {"action": "duplicate", "source": "e"},
//	  {"action": "toggle", "source": "f"},
//	  {"action": "capture", "ids": ["g", "h"], "name": "player card"},
//	  {"action": "undo"}
//	]}
func LoadEditScript(jsonData []byte) (*EditScript, error) {
	var script editScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse edit script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse edit script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "drop":
			if _, ok := ParseDropIntent(st.Intent); !ok {
				return nil, fmt.Errorf("parse edit script: step %d: unknown intent %q", i, st.Intent)
			}
		case "root", "delete", "duplicate", "toggle", "capture", "undo", "redo":
		default:
			return nil, fmt.Errorf("parse edit script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &EditScript{steps: script.Steps}, nil
}

// Len returns the number of steps.
func (s *EditScript) Len() int {
	return len(s.steps)
}

// Run applies every step to doc. Steps that the document discards (cycles,
// missing nodes) are reported with Applied=false and do not stop the run.
// Captured templates are passed to onCapture, which may be nil.
func (s *EditScript) Run(doc *Document, onCapture func(Template)) []StepResult {
	results := make([]StepResult, 0, len(s.steps))
	for i, st := range s.steps {
		var ok bool
		switch st.Action {
		case "drop":
			intent, _ := ParseDropIntent(st.Intent)
			ok = doc.Drop(Drop{Source: st.Source, Target: st.Target, Intent: intent})
		case "root":
			ok = doc.DropToRoot(st.Source)
		case "delete":
			ok = doc.Delete(st.Source, nil)
		case "duplicate":
			ok = len(doc.Duplicate(st.Source)) > 0
		case "toggle":
			ok = doc.FlipToggle(st.Source)
		case "capture":
			tm := doc.Capture(st.IDs, st.Name)
			ok = len(tm.Nodes) > 0
			if ok && onCapture != nil {
				onCapture(tm)
			}
		case "undo":
			ok = doc.Undo()
		case "redo":
			ok = doc.Redo()
		}
		results = append(results, StepResult{Index: i, Action: st.Action, Applied: ok})
	}
	return results
}

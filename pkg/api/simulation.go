package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/simulation"
)

const (
	maxSimulationSteps    = 10000
	maxSimulationGestures = 10000
	maxSimulationBody     = 4 << 20
)

// handleSimulation executes a scenario against a scratch editor that shares
// this server's key bindings. The live diagram is untouched.
func (s *Server) handleSimulation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}

	var scenario simulation.Scenario
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSimulationBody)).Decode(&scenario); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json_body", "")
		return
	}
	if len(scenario.Steps) > maxSimulationSteps {
		writeError(w, http.StatusBadRequest, "too_many_steps", "")
		return
	}
	if rc := scenario.Random; rc != nil {
		if rc.Gestures < 0 || rc.Gestures > maxSimulationGestures {
			writeError(w, http.StatusBadRequest, "invalid_gesture_count", "")
			return
		}
		if rc.Moves < 0 || rc.Moves > maxSimulationSteps {
			writeError(w, http.StatusBadRequest, "invalid_move_count", "")
			return
		}
		// generated gestures count against the same event budget as steps
		if len(scenario.Steps)+rc.MaxEvents() > maxSimulationSteps {
			writeError(w, http.StatusBadRequest, "too_many_steps", "")
			return
		}
	}
	if len(scenario.Steps) == 0 && scenario.Random == nil {
		writeError(w, http.StatusBadRequest, "empty_scenario", "")
		return
	}

	scratch := editor.New(
		editor.WithKeymap(s.editor.Keymap()),
		editor.WithIDSource(editor.NewSequenceSource("sim")),
		editor.WithLogger(s.logger),
	)
	result, err := simulation.Run(r.Context(), scenario, simulation.NewLocal(scratch), s.logger)
	if err != nil {
		s.logger.Error("simulation_failed", "trace_id", getTraceID(r.Context()), "scenario", scenario.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "simulation_failed", err.Error())
		return
	}

	s.writeJSON(w, r, http.StatusOK, result)
}

// Package agui maps gallery lifecycle events onto the AG-UI protocol so a
// browser can follow a critique or generation over Server-Sent Events.
//
// # Usage
//
//	mapper := agui.NewMapper(threadID, runID)
//	for ev := range mapper.MapStream(lifecycleEvents) {
//	    writeSSE(w, flusher, ev)
//	}
//
// # Event Mapping
//
//   - run_start      → RUN_STARTED
//   - step_start     → STEP_STARTED
//   - step_end       → STEP_FINISHED
//   - state_snapshot → STATE_SNAPSHOT
//   - run_end        → RUN_FINISHED
//   - run_error      → RUN_ERROR
//
// The Mapper is not safe for concurrent use; create one per run.
package agui

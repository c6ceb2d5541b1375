package nodes

import "github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"

const defaultMaxToolCalls = 3

func normalizeMaxToolCalls(maxToolCalls int) int {
	if maxToolCalls <= 0 {
		return defaultMaxToolCalls
	}
	return maxToolCalls
}

// checkAndMarkToolLimit reports whether the cap has just been hit and
// latches the flag so the wrap-up notice is injected exactly once.
func checkAndMarkToolLimit(state *model.TurnState, maxToolCalls int) bool {
	if state.ToolCallLimitReached {
		return false
	}
	if state.ToolCallCount >= normalizeMaxToolCalls(maxToolCalls) {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// incrementToolCallAndCheck bumps the counter for an execution attempt
// and reports whether the cap is now exceeded.
func incrementToolCallAndCheck(state *model.TurnState, maxToolCalls int) bool {
	state.ToolCallCount++
	return state.ToolCallCount > normalizeMaxToolCalls(maxToolCalls)
}

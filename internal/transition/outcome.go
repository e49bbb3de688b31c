package transition

// Op names a coordinator operation.
type Op string

const (
	OpSwapToMain             Op = "swap-main"
	OpSwapCounterClockwise   Op = "swap-ccw"
	OpSwapClockwise          Op = "swap-cw"
	OpThrowToScreen          Op = "throw-screen"
	OpScreenClockwise        Op = "screen-cw"
	OpScreenCounterClockwise Op = "screen-ccw"
	OpPushToSpace            Op = "push-space"
	OpPushToSpaceLeft        Op = "push-space-left"
	OpPushToSpaceRight       Op = "push-space-right"
)

// SkipReason explains why an operation did not emit the transition it
// exists for.
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipNoTarget         SkipReason = "no_target"
	SkipNoFocusedWindow  SkipReason = "no_focused_window"
	SkipFloating         SkipReason = "floating"
	SkipNoScreen         SkipReason = "no_screen"
	SkipNotInWindowList  SkipReason = "not_in_window_list"
	SkipTooFewWindows    SkipReason = "too_few_windows"
	SkipNoLastMainWindow SkipReason = "no_last_main_window"
	SkipUnknownScreen    SkipReason = "unknown_screen"
	SkipAlreadyOnScreen  SkipReason = "already_on_screen"
	SkipNoFocusedSpace   SkipReason = "no_focused_space"
	SkipNoSpaceInfo      SkipReason = "no_space_info"
	SkipSpaceOutOfBounds SkipReason = "space_out_of_bounds"
)

// Outcome records what a single coordinator call did. A reset-focus
// fallback carries both the ResetFocus transition and the skip reason that
// caused it.
type Outcome struct {
	Op         Op
	Transition *Transition
	Skip       SkipReason
	// Err is an executor or focus failure reported by the Target. It is
	// informational; coordinator operations never fail.
	Err error
}

// Emitted reports whether a transition was handed to the Target.
func (o Outcome) Emitted() bool {
	return o.Transition != nil
}

func skipped(op Op, reason SkipReason) Outcome {
	return Outcome{Op: op, Skip: reason}
}

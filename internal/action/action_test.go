package action

import (
	"testing"

	"github.com/1broseidon/tilewm/internal/transition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		wantOp  transition.Op
		wantIdx int
		wantErr bool
	}{
		{name: "swap-main", wantOp: transition.OpSwapToMain},
		{name: " Swap-CW ", wantOp: transition.OpSwapClockwise},
		{name: "screen-ccw", wantOp: transition.OpScreenCounterClockwise},
		{name: "throw-screen-1", wantOp: transition.OpThrowToScreen, wantIdx: 0},
		{name: "throw-screen-3", wantOp: transition.OpThrowToScreen, wantIdx: 2},
		{name: "push-space-9", wantOp: transition.OpPushToSpace, wantIdx: 8},
		{name: "push-space-left", wantOp: transition.OpPushToSpaceLeft},
		{name: "toggle-float"},
		{name: "retile"},
		{name: "", wantErr: true},
		{name: "throw-screen-0", wantErr: true},
		{name: "push-space-10", wantErr: true},
		{name: "throw-screen-x", wantErr: true},
		{name: "swap-sideways", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOp, got.Op)
			assert.Equal(t, tt.wantIdx, got.Index)
		})
	}
}

func TestNamesAllParse(t *testing.T) {
	names := Names()
	assert.Len(t, names, 7+2*MaxIndexed+2)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		a, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, a.Name)
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true
	}
}

func TestIndexed(t *testing.T) {
	a, err := Parse("push-space-2")
	require.NoError(t, err)
	assert.True(t, a.Indexed())

	a, err = Parse("push-space-right")
	require.NoError(t, err)
	assert.False(t, a.Indexed())
}

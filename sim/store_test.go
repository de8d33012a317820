package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shadowStructure declares "level" both as a parameter and as a virtual state.
func shadowStructure() *ModelStructure {
	return &ModelStructure{
		Parameters:    []string{"level", "gain"},
		Inputs:        []string{"u"},
		Outputs:       []string{"y"},
		VirtualStates: []VirtualStateDescriptor{{Name: "level", InitAttribute: "level", UpdateAttribute: "y"}},
	}
}

func TestAttributeStore_Lookup_Precedence(t *testing.T) {
	store := NewAttributeStore(shadowStructure())
	require.NoError(t, store.static.set("level", 1))
	require.NoError(t, store.static.set("gain", 2))
	require.NoError(t, store.input.set("u", 3))
	require.NoError(t, store.output.set("y", 4))

	tests := []struct {
		name    string
		want    float64
		wantErr error
	}{
		// declared virtual state without a value hides the parameter
		{"level", 0, ErrLifecycleViolation},
		{"gain", 2, nil},
		{"u", 3, nil},
		{"y", 4, nil},
		{"other", 0, ErrUnknownAttribute},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := store.Lookup(tc.name)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	// WHEN the virtual state gets a value THEN it wins over the parameter
	require.NoError(t, store.internal.set("level", 9))
	got, err := store.Lookup("level")
	require.NoError(t, err)
	assert.Equal(t, 9.0, got)
}

func TestAttributeStore_TransferSnapshot_ExcludesOutputs(t *testing.T) {
	store := NewAttributeStore(shadowStructure())
	require.NoError(t, store.static.set("level", 1))
	require.NoError(t, store.static.set("gain", 2))
	require.NoError(t, store.input.set("u", 3))
	require.NoError(t, store.output.set("y", 4))
	require.NoError(t, store.internal.set("level", 7))

	snap := store.TransferSnapshot()

	assert.Equal(t, Snapshot{"level": 7, "gain": 2, "u": 3}, snap)
}

func TestAttributeStore_TransferSnapshot_UnsetInternalHidesStatic(t *testing.T) {
	store := NewAttributeStore(shadowStructure())
	require.NoError(t, store.static.set("level", 1))

	snap := store.TransferSnapshot()

	_, ok := snap["level"]
	assert.False(t, ok)
}

func TestAttributeStore_Set_UndeclaredName_Fails(t *testing.T) {
	store := NewAttributeStore(shadowStructure())

	assert.ErrorIs(t, store.input.set("y", 1), ErrUnknownAttribute)
	assert.ErrorIs(t, store.output.set("u", 1), ErrUnknownAttribute)
}

func TestAttributeStore_Values_ResolvesEachName(t *testing.T) {
	store := NewAttributeStore(shadowStructure())
	require.NoError(t, store.static.set("level", 1))
	require.NoError(t, store.static.set("gain", 2))
	require.NoError(t, store.output.set("y", 4))

	vals := store.Values()

	assert.Equal(t, []string{"gain", "y"}, vals.Names())
}

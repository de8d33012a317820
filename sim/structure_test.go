package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelStructure_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(ms *ModelStructure)
		wantErr bool
	}{
		{"valid", func(*ModelStructure) {}, false},
		{"virtual state shadows parameter", func(ms *ModelStructure) { ms.VirtualStates[0].Name = "capacity" }, false},
		{"duplicate input", func(ms *ModelStructure) { ms.Inputs = []string{"P_set", "P_set"} }, true},
		{"input reuses output", func(ms *ModelStructure) { ms.Inputs = []string{"P"} }, true},
		{"parameter reuses input", func(ms *ModelStructure) { ms.Parameters = append(ms.Parameters, "P_set") }, true},
		{"empty name", func(ms *ModelStructure) { ms.Outputs = append(ms.Outputs, "") }, true},
		{"virtual state clashes with input", func(ms *ModelStructure) { ms.VirtualStates[0].Name = "P_set" }, true},
		{"init attribute not a parameter", func(ms *ModelStructure) { ms.VirtualStates[0].InitAttribute = "P" }, true},
		{"update attribute not an output", func(ms *ModelStructure) { ms.VirtualStates[0].UpdateAttribute = "capacity" }, true},
		{"duplicate virtual state", func(ms *ModelStructure) {
			ms.VirtualStates = append(ms.VirtualStates, ms.VirtualStates[0])
		}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ms := accumulatorStructure()
			tc.mutate(&ms)
			err := ms.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStructure)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestModelStructure_OutputIndex(t *testing.T) {
	ms := ModelStructure{Outputs: []string{"a", "b"}}
	assert.Equal(t, 1, ms.OutputIndex("b"))
	assert.Equal(t, -1, ms.OutputIndex("c"))
}

package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	AssignedTo Value[string] `json:"assigned_to"`
	Year       Value[int]    `json:"vehicle_year"`
}

func TestValue_TriState(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		set     bool
		null    bool
		present string
	}{
		{name: "absent", body: `{}`},
		{name: "null", body: `{"assigned_to":null}`, set: true, null: true},
		{name: "value", body: `{"assigned_to":"abc"}`, set: true, present: "abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tc.body), &p))
			assert.Equal(t, tc.set, p.AssignedTo.Set)
			assert.Equal(t, tc.null, p.AssignedTo.IsNull())
			if tc.present != "" {
				require.NotNil(t, p.AssignedTo.Ptr)
				assert.Equal(t, tc.present, *p.AssignedTo.Ptr)
			}
			assert.False(t, p.Year.Set)
		})
	}
}

func TestValue_TypeMismatch(t *testing.T) {
	var p patch
	assert.Error(t, json.Unmarshal([]byte(`{"vehicle_year":"nineteen"}`), &p))
}

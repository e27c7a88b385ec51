package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlag_Or(t *testing.T) {
	assert.True(t, FlagUnset.Or(true))
	assert.False(t, FlagUnset.Or(false))
	assert.True(t, FlagEnabled.Or(false))
	assert.False(t, FlagDisabled.Or(true))
}

func TestFlag_Predicates(t *testing.T) {
	tests := []struct {
		flag     Flag
		set      bool
		enabled  bool
		disabled bool
		str      string
	}{
		{FlagUnset, false, false, false, "unset"},
		{FlagEnabled, true, true, false, "true"},
		{FlagDisabled, true, false, true, "false"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.set, tt.flag.IsSet())
			assert.Equal(t, tt.enabled, tt.flag.Enabled())
			assert.Equal(t, tt.disabled, tt.flag.Disabled())
			assert.Equal(t, tt.str, tt.flag.String())
		})
	}
}

func TestFlagOf(t *testing.T) {
	assert.Equal(t, FlagEnabled, FlagOf(true))
	assert.Equal(t, FlagDisabled, FlagOf(false))
}

func TestFlag_JSON(t *testing.T) {
	type wrapper struct {
		A Flag `json:"a"`
		B Flag `json:"b"`
		C Flag `json:"c"`
	}

	data, err := json.Marshal(wrapper{A: FlagEnabled, B: FlagDisabled})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":true,"b":false,"c":null}`, string(data))

	var got wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"a":false,"b":null,"c":true}`), &got))
	assert.Equal(t, wrapper{A: FlagDisabled, B: FlagUnset, C: FlagEnabled}, got)

	var missing wrapper
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	assert.Equal(t, wrapper{}, missing)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"yes"}`), &got))
}

package postflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testModel struct {
	id       string
	provider Provider
}

func (m testModel) String() string     { return m.id }
func (m testModel) Provider() Provider { return m.provider }

func TestApplyOptionsDefaults(t *testing.T) {
	o := ApplyOptions()
	assert.Nil(t, o.Model)
	assert.Zero(t, o.MaxTokens)
	assert.Nil(t, o.Temperature)
	assert.False(t, o.JSONResponse)
}

func TestApplyOptions(t *testing.T) {
	m := testModel{id: "test-model", provider: ProviderGoogle}

	o := ApplyOptions(
		WithModel(m),
		WithMaxTokens(1000),
		WithTemperature(0.7),
		WithJSONResponse(),
	)

	assert.Equal(t, m, o.Model)
	assert.Equal(t, 1000, o.MaxTokens)
	require.NotNil(t, o.Temperature)
	assert.Equal(t, 0.7, *o.Temperature)
	assert.True(t, o.JSONResponse)
}

func TestWithTemperatureZero(t *testing.T) {
	o := ApplyOptions(WithTemperature(0))
	require.NotNil(t, o.Temperature)
	assert.Equal(t, 0.0, *o.Temperature)
}

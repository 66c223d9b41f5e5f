package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	ports := &Ports{Pipeline: &mockPipeline{}}
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate_MissingPipeline(t *testing.T) {
	ports := &Ports{}
	assert.ErrorIs(t, ports.Validate(), ErrMissingPipelineService)
}

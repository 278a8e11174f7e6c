package targets

import (
	"strings"
	"testing"

	"github.com/bnema/rnbridge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRenderSingleTarget(t *testing.T) {
	output := NewRenderer().Render([]domain.Target{
		{
			ID:         "myapp-1",
			Title:      "MyApp",
			DeviceName: "Pixel 8",
			VM:         "Hermes",
			Endpoint:   "ws://localhost:8081/inspector/debug?device=0&page=1",
		},
	})

	assert.Contains(t, output, "Found 1 connected app(s):")
	assert.Contains(t, output, "1. MyApp")
	assert.Contains(t, output, "ID: myapp-1")
	assert.Contains(t, output, "Device: Pixel 8")
	assert.Contains(t, output, "VM: Hermes")
	assert.Contains(t, output, "WebSocket: ws://localhost:8081/inspector/debug?device=0&page=1")
}

func TestRenderMultipleTargetsInDiscoveryOrder(t *testing.T) {
	output := NewRenderer().Render([]domain.Target{
		{ID: "b-2", Title: "Second", Endpoint: "ws://b"},
		{ID: "a-1", Endpoint: "ws://a"},
	})

	assert.Contains(t, output, "Found 2 connected app(s):")
	assert.Less(t, strings.Index(output, "1. Second"), strings.Index(output, "2. a-1"))
	assert.NotContains(t, output, "Device:")
}

package graph

import (
	"testing"

	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLogging(t *testing.T) {
	t.Cleanup(func() { azlog.SetListener(nil) })

	assert.True(t, ConfigureLogging(LogFull).IncludeBody)
	assert.False(t, ConfigureLogging(LogHeaders).IncludeBody)
	assert.False(t, ConfigureLogging(LogBasic).IncludeBody)
	assert.Equal(t, false, ConfigureLogging(LogNone).IncludeBody)
}

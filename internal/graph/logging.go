package graph

import (
	azlog "github.com/Azure/azure-sdk-for-go/sdk/azcore/log"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/Azure/msgraph-snippets/internal/logger"
)

// HTTP log levels accepted by ConfigureLogging.
const (
	LogNone    = "none"
	LogBasic   = "basic"
	LogHeaders = "headers"
	LogFull    = "full"
)

// ConfigureLogging routes Azure SDK pipeline events into the logger at debug
// level and returns the logging options matching level. The SDK listener is
// process-wide.
func ConfigureLogging(level string) policy.LogOptions {
	switch level {
	case LogNone:
		azlog.SetListener(nil)
		return policy.LogOptions{}
	case LogBasic:
		azlog.SetEvents(azlog.EventRequest, azlog.EventResponse)
	default:
		azlog.SetEvents(azlog.EventRequest, azlog.EventResponse, azlog.EventResponseError, azlog.EventRetryPolicy)
	}

	azlog.SetListener(func(event azlog.Event, msg string) {
		logger.Debugf("[%s] %s", event, msg)
	})

	return policy.LogOptions{
		IncludeBody: level == LogFull || level == "",
	}
}

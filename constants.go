package client

import "time"

const (
	ServiceName    = "aurelio"
	DefaultBaseURL = "https://api.aurelio.ai"
	DefaultTimeout = 60 * time.Second
	APIVersion     = "v1"

	// DefaultWait bounds how long extraction calls block before
	// returning a pending document.
	DefaultWait = 30 * time.Second

	// DefaultPollingInterval is the pause between status checks while
	// waiting for a document.
	DefaultPollingInterval = 5 * time.Second

	// DefaultWaitBeforePolling is the short server-side wait hint sent
	// with a submission when the client polls for completion itself.
	DefaultWaitBeforePolling = 5 * time.Second

	// DefaultRetries is the attempt budget for a single logical request.
	DefaultRetries = 3

	RequestIDHeader = "x-request-id"
)

// WaitIndefinitely makes extraction calls block until the document
// reaches a terminal status. Any negative wait has the same meaning.
const WaitIndefinitely time.Duration = -1

// PollingDisabled turns off repeated status checks: the engine sleeps
// for the full wait and checks exactly once. Only valid with a finite
// positive wait.
const PollingDisabled time.Duration = 0

// API endpoints
const (
	EndpointChunk           = "/" + APIVersion + "/chunk"
	EndpointExtractFile     = "/" + APIVersion + "/extract/file"
	EndpointExtractURL      = "/" + APIVersion + "/extract/url"
	EndpointExtractDocument = "/" + APIVersion + "/extract/document"
	EndpointEmbeddings      = "/" + APIVersion + "/embeddings"
)

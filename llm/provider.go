package llm

import (
	"net/http"
	"sync"
)

// Provider defines the interface for remote model adapters.
// Each implementation differs only in wire format and authentication;
// failure classification is shared by the Client.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string

	// BuildURL constructs the full API endpoint URL for a model.
	BuildURL(baseURL, model string) string

	// SetHeaders adds provider-specific headers to the request.
	SetHeaders(req *http.Request, apiKey string)

	// BuildRequestBody creates the JSON request body for a single prompt.
	BuildRequestBody(model, prompt string) ([]byte, error)

	// ParseResponse extracts the generated text from provider-specific JSON.
	ParseResponse(body []byte) (string, error)
}

// Endpoint is an opaque credential/endpoint bundle for one provider.
// An endpoint with an empty APIKey is considered unconfigured.
type Endpoint struct {
	Provider string
	URL      string
	Model    string
	APIKey   string
}

// Configured reports whether the endpoint carries usable credentials.
func (e Endpoint) Configured() bool {
	return e.APIKey != ""
}

// providerRegistry holds registered providers.
var (
	providerRegistry = make(map[string]Provider)
	providerMu       sync.RWMutex
)

// RegisterProvider adds a provider to the registry.
func RegisterProvider(p Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providerRegistry[p.Name()] = p
}

// GetProvider retrieves a provider by name.
func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providerRegistry[name]
}

package openai

import (
	"sync"

	"github.com/sashabaranov/go-openai"
)

var (
	client *openai.Client
	once   sync.Once
	apiKey string
)

// Configure sets the API key used by GetClient. Must be called before the
// first GetClient.
func Configure(key string) {
	apiKey = key
}

// GetClient returns the process-wide OpenAI client.
func GetClient() *openai.Client {
	once.Do(func() {
		client = openai.NewClient(apiKey)
	})
	return client
}

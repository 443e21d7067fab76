package entity

const DefaultMaxTokens = 16000

// GenerationRequest is built fresh for every generation call
type GenerationRequest struct {
	Prompt        string
	StopSequences []string
	Temperature   *float64
	TopP          *float64
	MaxTokens     int
}

// GenerationPayload is the wire body accepted by both generation endpoints
type GenerationPayload struct {
	Prompt        string   `json:"Prompt"`
	AccountType   int      `json:"intelligizeAIAccountType"`
	SecretKey     string   `json:"endpointSecretKey"`
	Source        string   `json:"Source"`
	Category      string   `json:"Category"`
	AppKey        string   `json:"AppKey"`
	LLMMetadata   *bool    `json:"LLMMetadata,omitempty"`
	MaxTokens     int      `json:"responseMaxTokens"`
	Temperature   *float64 `json:"Temperature,omitempty"`
	TopP          *float64 `json:"TopP,omitempty"`
	StopSequences []string `json:"StopSequences,omitempty"`
}

type GenerationContent struct {
	Type string `json:"type,omitempty"`
	Text string `json:"text"`
}

// GenerationResponse is the blocking endpoint's answer; the text lives at content[0].text
type GenerationResponse struct {
	Content []GenerationContent `json:"content"`
}

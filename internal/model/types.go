package model

// Messages API (Claude 3 and later).

const bedrockAnthropicVersion = "bedrock-2023-05-31"

type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	Messages         []message `json:"messages"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

// Legacy text completion API (Claude 1/2, Claude Instant).

const legacyStopSequence = "\n\nHuman:"

type completionRequest struct {
	Prompt            string   `json:"prompt"`
	MaxTokensToSample int      `json:"max_tokens_to_sample"`
	Temperature       float64  `json:"temperature"`
	StopSequences     []string `json:"stop_sequences"`
}

type completionResponse struct {
	Completion string `json:"completion"`
}

// Titan single input field API.

type titanRequest struct {
	InputText            string              `json:"inputText"`
	TextGenerationConfig titanGenerationConf `json:"textGenerationConfig"`
}

type titanGenerationConf struct {
	MaxTokenCount int      `json:"maxTokenCount"`
	Temperature   float64  `json:"temperature"`
	StopSequences []string `json:"stopSequences"`
}

type titanResponse struct {
	Results []struct {
		OutputText string `json:"outputText"`
	} `json:"results"`
}

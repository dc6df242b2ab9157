package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Schema is one of the closed set of request/response shapes a hosted model
// family speaks.
type Schema int

const (
	SchemaMessages Schema = iota + 1
	SchemaLegacyCompletion
	SchemaSingleField
)

func (s Schema) String() string {
	switch s {
	case SchemaMessages:
		return "messages"
	case SchemaLegacyCompletion:
		return "legacy-completion"
	case SchemaSingleField:
		return "single-field"
	default:
		return "unknown"
	}
}

// Params are the sampling settings shared by every schema.
type Params struct {
	MaxTokens   int
	Temperature float64
}

type variant struct {
	schema Schema
	prefix string
	build  func(prompt string, p Params) any
	unwrap func(body []byte) (string, error)
}

// variants is matched in order, so the more specific prefix comes first.
var variants = []variant{
	{schema: SchemaMessages, prefix: "anthropic.claude-3", build: buildMessages, unwrap: unwrapMessages},
	{schema: SchemaLegacyCompletion, prefix: "anthropic.", build: buildCompletion, unwrap: unwrapCompletion},
	{schema: SchemaSingleField, prefix: "amazon.titan", build: buildTitan, unwrap: unwrapTitan},
}

// Resolve picks the schema for a model identifier.
func Resolve(modelID string) (Schema, bool) {
	v, ok := lookup(modelID)
	return v.schema, ok
}

func lookup(modelID string) (variant, bool) {
	for _, v := range variants {
		if strings.HasPrefix(modelID, v.prefix) {
			return v, true
		}
	}
	return variant{}, false
}

// KnownPrefixes lists the model ID prefixes that can be invoked.
func KnownPrefixes() []string {
	out := make([]string, len(variants))
	for i, v := range variants {
		out[i] = v.prefix
	}
	return out
}

func buildMessages(prompt string, p Params) any {
	return messagesRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		Messages: []message{{
			Role:    "user",
			Content: []contentBlock{{Type: "text", Text: prompt}},
		}},
		MaxTokens:   p.MaxTokens,
		Temperature: p.Temperature,
	}
}

func unwrapMessages(body []byte) (string, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range resp.Content {
		if c.Type == "" || c.Type == "text" {
			b.WriteString(c.Text)
		}
	}
	return b.String(), nil
}

func buildCompletion(prompt string, p Params) any {
	return completionRequest{
		Prompt:            fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
		MaxTokensToSample: p.MaxTokens,
		Temperature:       p.Temperature,
		StopSequences:     []string{legacyStopSequence},
	}
}

func unwrapCompletion(body []byte) (string, error) {
	var resp completionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	return resp.Completion, nil
}

func buildTitan(prompt string, p Params) any {
	return titanRequest{
		InputText: prompt,
		TextGenerationConfig: titanGenerationConf{
			MaxTokenCount: p.MaxTokens,
			Temperature:   p.Temperature,
			StopSequences: []string{},
		},
	}
}

func unwrapTitan(body []byte) (string, error) {
	var resp titanResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].OutputText, nil
}

// Package model invokes hosted language models on Amazon Bedrock and
// normalizes their replies to plain text.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/tcgen/internal/domain"
)

// Invoker sends a single prompt and returns the model's text reply.
type Invoker interface {
	Invoke(ctx context.Context, prompt, modelID string, maxTokens int, temperature float64) (string, error)
}

// RuntimeAPI is the subset of the Bedrock runtime client used here.
type RuntimeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Options configures NewBedrockClient.
type Options struct {
	Region   string
	Endpoint string // optional override, e.g. a VPC endpoint or a local stub
}

// BedrockClient implements Invoker on top of the Bedrock runtime.
type BedrockClient struct {
	api RuntimeAPI
	log *logrus.Logger
}

// NewClient wraps an existing runtime API.
func NewClient(api RuntimeAPI, log *logrus.Logger) *BedrockClient {
	return &BedrockClient{api: api, log: log}
}

// NewBedrockClient loads AWS credentials from the default chain and builds
// a runtime client with retries disabled: one request per invocation.
func NewBedrockClient(ctx context.Context, opts Options, log *logrus.Logger) (*BedrockClient, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, domain.NewErrorWithSuggestion(domain.KindConfig, region,
			"failed to load AWS configuration",
			"check AWS credentials (AWS_PROFILE, AWS_ACCESS_KEY_ID) and model.region in tcgen.yaml",
			err)
	}

	api := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.Retryer = aws.NopRetryer{}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return NewClient(api, log), nil
}

// Invoke sends prompt to modelID. An unrecognized model ID fails before any
// network traffic; service failures are returned as transport errors with
// the original cause attached.
func (c *BedrockClient) Invoke(ctx context.Context, prompt, modelID string, maxTokens int, temperature float64) (string, error) {
	v, ok := lookup(modelID)
	if !ok {
		return "", domain.NewErrorWithSuggestion(domain.KindUnsupportedModel, modelID,
			fmt.Sprintf("unsupported model schema for %s", modelID),
			fmt.Sprintf("use a model ID starting with one of: %s", strings.Join(KnownPrefixes(), ", ")),
			nil)
	}
	if maxTokens <= 0 {
		return "", domain.NewError(domain.KindInput, modelID,
			fmt.Sprintf("max tokens must be positive (got %d)", maxTokens), nil)
	}
	if temperature < 0 || temperature > 1 {
		return "", domain.NewError(domain.KindInput, modelID,
			fmt.Sprintf("temperature must be within [0, 1] (got %g)", temperature), nil)
	}

	body, err := json.Marshal(v.build(prompt, Params{MaxTokens: maxTokens, Temperature: temperature}))
	if err != nil {
		return "", domain.NewError(domain.KindTransport, modelID, "failed to marshal request", err)
	}

	c.log.Debugf("Invoking %s (%s schema, max_tokens=%d, temperature=%g)", modelID, v.schema, maxTokens, temperature)
	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", domain.NewError(domain.KindTransport, modelID, "model invocation failed", err)
	}

	text, err := v.unwrap(out.Body)
	if err != nil {
		return "", domain.NewError(domain.KindTransport, modelID, "failed to decode response", err)
	}
	c.log.Debugf("Model %s returned %d characters", modelID, len(text))
	return text, nil
}

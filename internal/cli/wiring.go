package cli

import (
	"context"

	"github.com/frherrer/tcgen/internal/config"
	"github.com/frherrer/tcgen/internal/generator"
	"github.com/frherrer/tcgen/internal/model"
	tmpl "github.com/frherrer/tcgen/internal/template"
	"github.com/frherrer/tcgen/internal/tokens"
)

// newGenerator wires the prompt engine, the Bedrock client and the token
// estimator from cfg.
func newGenerator(ctx context.Context, cfg *config.Config) (*generator.DefaultGenerator, error) {
	engine, err := tmpl.NewEngine(cfg.Templates.Directory)
	if err != nil {
		return nil, err
	}
	log.Debugf("Templates: %v", engine.ListTemplates())

	client, err := model.NewBedrockClient(ctx, model.Options{
		Region:   cfg.Model.Region,
		Endpoint: cfg.Model.Endpoint,
	}, log)
	if err != nil {
		return nil, err
	}

	return generator.NewGenerator(engine, client, tokens.NewEstimator(), cfg.Model.MaxTokensCeiling, log), nil
}

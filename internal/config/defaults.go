package config

import "os"

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return &Config{
		Model: ModelConfig{
			ID:               "anthropic.claude-3-sonnet-20240229-v1:0",
			Region:           region,
			Temperature:      0.0,
			MaxTokensCeiling: 8000,
		},
		Generation: GenerationConfig{
			Format:   "traditional",
			Estimate: true,
			Count:    10,
		},
		Input: InputConfig{
			Directories: []string{"requirements"},
			Include:     []string{"*.txt", "*.md", "*.pdf", "*.docx"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Output: OutputConfig{
			Directory:  "testcases",
			FilePrefix: "testcases_",
			Formats:    []string{"csv", "xlsx", "txt"},
			StepsSheet: true,
		},
		Server: ServerConfig{
			Address:        ":8080",
			MaxUploadBytes: 20 << 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

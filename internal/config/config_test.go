package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/tcgen/internal/config"
)

const fullYAML = `
model:
  id: amazon.titan-text-express-v1
  region: eu-west-1
  temperature: 0.4
  max_tokens_ceiling: 4000
generation:
  format: bdd
  estimate: false
  count: 25
input:
  directories: [specs, docs, more]
  include: ["*.docx"]
output:
  directory: out
  formats: [csv]
logging:
  level: debug
`

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Describe("Load", func() {
		It("should load a minimal config over the defaults", func() {
			cfg, err := config.Load(write("min.yaml", "generation:\n  count: 7\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Generation.Count).To(Equal(7))
			Expect(cfg.Generation.Format).To(Equal("traditional"))
			Expect(cfg.Model.MaxTokensCeiling).To(Equal(8000))
		})

		It("should load a full config", func() {
			cfg, err := config.Load(write("full.yaml", fullYAML))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Model.ID).To(Equal("amazon.titan-text-express-v1"))
			Expect(cfg.Model.Region).To(Equal("eu-west-1"))
			Expect(cfg.Generation.Estimate).To(BeFalse())
			Expect(cfg.Input.Directories).To(HaveLen(3))
			Expect(cfg.Output.Formats).To(Equal([]string{"csv"}))
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should load the example config shipped with the repo", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "tcgen.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.Validate(cfg)).To(Succeed())
			Expect(cfg.Output.StepsSheet).To(BeTrue())
			Expect(*cfg.Input.Recursive).To(BeTrue())
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load(filepath.Join(dir, "nonexistent.yaml"))
			Expect(err).To(HaveOccurred())
		})

		It("should return error for invalid YAML", func() {
			_, err := config.Load(write("bad.yaml", "{{invalid yaml}}"))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadOrDefault", func() {
		It("should fall back to defaults only for the default path", func() {
			wd, err := os.Getwd()
			Expect(err).ToNot(HaveOccurred())
			Expect(os.Chdir(dir)).To(Succeed())
			defer os.Chdir(wd)

			cfg, err := config.LoadOrDefault(config.DefaultPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Generation.Count).To(Equal(10))

			_, err = config.LoadOrDefault("custom.yaml")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg.Model.ID).To(HavePrefix("anthropic.claude-3"))
			Expect(cfg.Generation.Estimate).To(BeTrue())
			Expect(cfg.Generation.Count).To(Equal(10))
			Expect(*cfg.Input.Recursive).To(BeTrue())
			Expect(cfg.Output.Formats).To(ConsistOf("csv", "xlsx", "txt"))
			Expect(cfg.Logging.Level).To(Equal("info"))
			Expect(config.Validate(cfg)).To(Succeed())
		})
	})

	Describe("Validate", func() {
		It("should fail for an empty model id", func() {
			cfg := config.DefaultConfig()
			cfg.Model.ID = ""
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("model.id")))
		})

		It("should fail for temperature out of range", func() {
			cfg := config.DefaultConfig()
			cfg.Model.Temperature = 1.2
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("model.temperature")))
		})

		It("should fail for a ceiling above the hard limit", func() {
			cfg := config.DefaultConfig()
			cfg.Model.MaxTokensCeiling = 9000
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("max_tokens_ceiling")))
		})

		It("should fail for counts outside [1, 500]", func() {
			cfg := config.DefaultConfig()
			cfg.Generation.Count = 501
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("generation.count")))
			cfg.Generation.Count = 0
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("generation.count")))
		})

		It("should fail for an unknown format", func() {
			cfg := config.DefaultConfig()
			cfg.Generation.Format = "gherkin"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("generation.format")))
		})

		It("should fail for unknown export formats", func() {
			cfg := config.DefaultConfig()
			cfg.Output.Formats = []string{"pdf"}
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("output.formats")))
		})

		It("should report every problem at once", func() {
			cfg := config.DefaultConfig()
			cfg.Model.ID = ""
			cfg.Logging.Level = "verbose"
			err := config.Validate(cfg)
			Expect(err).To(MatchError(ContainSubstring("model.id")))
			Expect(err).To(MatchError(ContainSubstring("logging.level")))
		})
	})
})

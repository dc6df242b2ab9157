package generator_test

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/tcgen/internal/config"
	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/generator"
	"github.com/frherrer/tcgen/internal/model"
	tmpl "github.com/frherrer/tcgen/internal/template"
)

const sonnet = "anthropic.claude-3-sonnet-20240229-v1:0"

const twoCases = `ID: TC-1
Title: Login succeeds
Steps:
1. open login page
2. enter credentials
Expected Result: dashboard shown

ID: TC-2
Title: Login fails
Steps:
1. enter a wrong password
Expected Result: error shown`

type countingRuntime struct{ calls int }

func (c *countingRuntime) InvokeModel(context.Context, *bedrockruntime.InvokeModelInput, ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	c.calls++
	return &bedrockruntime.InvokeModelOutput{Body: []byte(`{"content":[]}`)}, nil
}

var _ = Describe("Generator", func() {
	var (
		engine *tmpl.DefaultEngine
		inv    *scriptedInvoker
		gen    *generator.DefaultGenerator
		req    generator.Request
	)

	BeforeEach(func() {
		var err error
		engine, err = tmpl.NewEngine("")
		Expect(err).ToNot(HaveOccurred())

		inv = &scriptedInvoker{}
		gen = generator.NewGenerator(engine, inv, wordCounter{}, 0, quietLogger())
		req = generator.Request{
			Requirements: "users can log in with email and password",
			Format:       domain.FormatTraditional,
			ModelID:      sonnet,
			Count:        10,
			Temperature:  0.4,
		}
	})

	It("should reject blank requirements without calling the model", func() {
		req.Requirements = "  \n\t "
		s, err := gen.Generate(context.Background(), req)
		Expect(s).To(BeNil())
		Expect(errors.Is(err, domain.ErrInput)).To(BeTrue())
		Expect(inv.calls).To(BeEmpty())
	})

	DescribeTable("should reject out-of-range controls",
		func(mutate func(*generator.Request)) {
			mutate(&req)
			_, err := gen.Generate(context.Background(), req)
			Expect(errors.Is(err, domain.ErrInput)).To(BeTrue())
			Expect(inv.calls).To(BeEmpty())
		},
		Entry("count zero", func(r *generator.Request) { r.Count = 0 }),
		Entry("count above 500", func(r *generator.Request) { r.Count = 501 }),
		Entry("negative temperature", func(r *generator.Request) { r.Temperature = -0.1 }),
		Entry("temperature above 1", func(r *generator.Request) { r.Temperature = 1.5 }),
		Entry("unknown format", func(r *generator.Request) { r.Format = "gherkin" }),
	)

	It("should generate once with the manual count when estimate is off", func() {
		inv.replies = []string{twoCases}
		s, err := gen.Generate(context.Background(), req)
		Expect(err).ToNot(HaveOccurred())

		Expect(inv.calls).To(HaveLen(1))
		Expect(inv.calls[0].prompt).To(ContainSubstring("Generate 10 manual test cases in the TRADITIONAL format"))
		Expect(inv.calls[0].temperature).To(Equal(0.4))
		Expect(inv.calls[0].modelID).To(Equal(sonnet))

		Expect(s.Count).To(Equal(10))
		Expect(s.Estimation).To(BeEmpty())
		Expect(s.RawOutput).To(Equal(twoCases))
		Expect(s.Records).To(HaveLen(2))
		Expect(s.Records[1].RecordID()).To(Equal("TC-002"))
		Expect(s.Steps).To(HaveLen(3))
		Expect(s.HasResults()).To(BeTrue())
	})

	It("should size max tokens from requirements, per-case estimate and buffer", func() {
		inv.replies = []string{twoCases}
		s, err := gen.Generate(context.Background(), req)
		Expect(err).ToNot(HaveOccurred())

		// 8 words + 180*10 + 200
		Expect(s.Tokens.RequirementTokens).To(Equal(8))
		Expect(s.Tokens.TotalTokens).To(Equal(2008))
		Expect(inv.calls[0].maxTokens).To(Equal(2008))
	})

	It("should cap max tokens at the ceiling", func() {
		req.Count = 100
		inv.replies = []string{twoCases}
		_, err := gen.Generate(context.Background(), req)
		Expect(err).ToNot(HaveOccurred())
		Expect(inv.calls[0].maxTokens).To(Equal(8000))
	})

	Context("with estimation", func() {
		BeforeEach(func() {
			req.Estimate = true
		})

		It("should estimate first at temperature zero and generate the estimated count", func() {
			inv.replies = []string{"- Number: 3\n- rationale:\n  - login paths", twoCases}
			s, err := gen.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())

			Expect(inv.calls).To(HaveLen(2))
			Expect(inv.calls[0].prompt).To(ContainSubstring("suggest an optimal number of manual test cases"))
			Expect(inv.calls[0].temperature).To(Equal(0.0))
			Expect(inv.calls[1].prompt).To(ContainSubstring("Generate 3 manual test cases"))
			Expect(inv.calls[1].maxTokens).To(Equal(8 + 180*3 + 200))

			Expect(s.Count).To(Equal(3))
			Expect(s.Estimation).To(HavePrefix("- Number: 3"))
		})

		It("should fall back to the manual count when the estimate has no number", func() {
			inv.replies = []string{"about a dozen", twoCases}
			s, err := gen.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Count).To(Equal(10))
			Expect(inv.calls[1].prompt).To(ContainSubstring("Generate 10 manual test cases"))
		})

		It("should bound the estimated count", func() {
			inv.replies = []string{"number: 9999", twoCases}
			s, err := gen.Generate(context.Background(), req)
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Count).To(Equal(config.MaxCount))
		})

		It("should stop after a failed estimate", func() {
			inv.err = domain.NewError(domain.KindTransport, sonnet, "model invocation failed", errors.New("throttled"))
			s, err := gen.Generate(context.Background(), req)
			Expect(s).To(BeNil())
			Expect(errors.Is(err, domain.ErrTransport)).To(BeTrue())
			Expect(inv.calls).To(HaveLen(1))
		})
	})

	It("should parse BDD output in BDD format", func() {
		req.Format = domain.FormatBDD
		inv.replies = []string{"Scenario: Successful login\nGiven a valid account\nWhen login is attempted\nThen dashboard is shown"}
		s, err := gen.Generate(context.Background(), req)
		Expect(err).ToNot(HaveOccurred())
		Expect(inv.calls[0].prompt).To(ContainSubstring("BDD format"))
		Expect(s.Records).To(ConsistOf(domain.BddRecord{
			ID:          "TC-001",
			Scenario:    "Successful login",
			Description: []string{"Given a valid account", "When login is attempted", "Then dashboard is shown"},
		}))
	})

	It("should surface unsupported models without a network call", func() {
		rt := &countingRuntime{}
		gen = generator.NewGenerator(engine, model.NewClient(rt, quietLogger()), wordCounter{}, 0, quietLogger())
		req.ModelID = "foo.bar"

		s, err := gen.Generate(context.Background(), req)
		Expect(s).To(BeNil())
		Expect(errors.Is(err, domain.ErrUnsupportedModel)).To(BeTrue())
		Expect(rt.calls).To(BeZero())
	})

	It("should return an empty session on reset", func() {
		s := gen.Reset()
		Expect(s).ToNot(BeNil())
		Expect(s.HasResults()).To(BeFalse())
	})

	Describe("RequestFromConfig", func() {
		It("should copy generation and model settings", func() {
			cfg := config.DefaultConfig()
			cfg.Generation.Format = "BDD"
			r, err := generator.RequestFromConfig(cfg, "text")
			Expect(err).ToNot(HaveOccurred())
			Expect(r).To(Equal(generator.Request{
				Requirements: "text",
				Format:       domain.FormatBDD,
				ModelID:      sonnet,
				Estimate:     true,
				Count:        10,
			}))
		})

		It("should reject an unknown format", func() {
			cfg := config.DefaultConfig()
			cfg.Generation.Format = "xml"
			_, err := generator.RequestFromConfig(cfg, "text")
			Expect(domain.KindOf(err)).To(Equal(domain.KindConfig))
		})
	})

	DescribeTable("ParseEstimate",
		func(text string, want int, ok bool) {
			n, found := generator.ParseEstimate(text)
			Expect(found).To(Equal(ok))
			Expect(n).To(Equal(want))
		},
		Entry("bullet", "- number: 12\n- rationale:", 12, true),
		Entry("upper case", "NUMBER:7", 7, true),
		Entry("first match wins", "number: 4 or number: 5", 4, true),
		Entry("missing", "twelve cases", 0, false),
		Entry("no digits", "number: many", 0, false),
	)
})

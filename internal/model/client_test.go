package model_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/tcgen/internal/domain"
	"github.com/frherrer/tcgen/internal/model"
)

type fakeRuntime struct {
	calls    int
	lastIn   *bedrockruntime.InvokeModelInput
	response string
	err      error
}

func (f *fakeRuntime) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.calls++
	f.lastIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.response)}, nil
}

func (f *fakeRuntime) sentBody() map[string]any {
	var m map[string]any
	Expect(json.Unmarshal(f.lastIn.Body, &m)).To(Succeed())
	return m
}

var _ = Describe("BedrockClient", func() {
	var (
		rt     *fakeRuntime
		client *model.BedrockClient
		ctx    context.Context
	)

	BeforeEach(func() {
		log := logrus.New()
		log.SetOutput(io.Discard)
		rt = &fakeRuntime{}
		client = model.NewClient(rt, log)
		ctx = context.Background()
	})

	Describe("Resolve", func() {
		It("should map prefixes to schemas", func() {
			s, ok := model.Resolve("anthropic.claude-3-sonnet-20240229-v1:0")
			Expect(ok).To(BeTrue())
			Expect(s).To(Equal(model.SchemaMessages))

			s, _ = model.Resolve("anthropic.claude-instant-v1")
			Expect(s).To(Equal(model.SchemaLegacyCompletion))

			s, _ = model.Resolve("amazon.titan-text-express-v1")
			Expect(s).To(Equal(model.SchemaSingleField))
		})

		It("should reject unknown prefixes", func() {
			_, ok := model.Resolve("meta.llama3")
			Expect(ok).To(BeFalse())
		})
	})

	It("should send a messages request and unwrap the first text", func() {
		rt.response = `{"content":[{"type":"text","text":"Title: generated"}]}`
		out, err := client.Invoke(ctx, "write tests", "anthropic.claude-3-sonnet-20240229-v1:0", 500, 0.2)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("Title: generated"))

		body := rt.sentBody()
		Expect(body["anthropic_version"]).To(Equal("bedrock-2023-05-31"))
		Expect(body["max_tokens"]).To(BeNumerically("==", 500))
		Expect(body["temperature"]).To(BeNumerically("~", 0.2))
		msgs := body["messages"].([]any)
		Expect(msgs).To(HaveLen(1))
		Expect(*rt.lastIn.ModelId).To(Equal("anthropic.claude-3-sonnet-20240229-v1:0"))
		Expect(*rt.lastIn.ContentType).To(Equal("application/json"))
	})

	It("should wrap legacy prompts in Human/Assistant turns", func() {
		rt.response = `{"completion":" done"}`
		out, err := client.Invoke(ctx, "hello", "anthropic.claude-instant-v1", 300, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal(" done"))

		body := rt.sentBody()
		Expect(body["prompt"]).To(Equal("\n\nHuman: hello\n\nAssistant:"))
		Expect(body["max_tokens_to_sample"]).To(BeNumerically("==", 300))
		Expect(body["stop_sequences"]).To(ConsistOf("\n\nHuman:"))
	})

	It("should use the single input field for titan", func() {
		rt.response = `{"results":[{"outputText":"titan says"}]}`
		out, err := client.Invoke(ctx, "hi", "amazon.titan-text-express-v1", 100, 0.5)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(Equal("titan says"))

		body := rt.sentBody()
		Expect(body["inputText"]).To(Equal("hi"))
		conf := body["textGenerationConfig"].(map[string]any)
		Expect(conf["maxTokenCount"]).To(BeNumerically("==", 100))
	})

	It("should return empty text when titan returns no results", func() {
		rt.response = `{"results":[]}`
		out, err := client.Invoke(ctx, "hi", "amazon.titan-text-lite-v1", 100, 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(out).To(BeEmpty())
	})

	It("should fail with an unsupported model error before calling the service", func() {
		_, err := client.Invoke(ctx, "hi", "foo.bar", 100, 0)
		Expect(err).To(MatchError(domain.ErrUnsupportedModel))
		Expect(err.Error()).To(ContainSubstring("foo.bar"))
		Expect(rt.calls).To(Equal(0))
	})

	It("should wrap service failures as transport errors and keep the cause", func() {
		cause := errors.New("throttled")
		rt.err = cause
		_, err := client.Invoke(ctx, "hi", "anthropic.claude-3-haiku", 100, 0)
		Expect(err).To(MatchError(domain.ErrTransport))
		Expect(errors.Is(err, cause)).To(BeTrue())
		Expect(rt.calls).To(Equal(1))
	})

	It("should report undecodable responses as transport errors", func() {
		rt.response = `not json`
		_, err := client.Invoke(ctx, "hi", "anthropic.claude-3-haiku", 100, 0)
		Expect(domain.KindOf(err)).To(Equal(domain.KindTransport))
	})

	It("should reject out of range parameters", func() {
		_, err := client.Invoke(ctx, "hi", "anthropic.claude-3-haiku", 0, 0)
		Expect(err).To(MatchError(domain.ErrInput))
		_, err = client.Invoke(ctx, "hi", "anthropic.claude-3-haiku", 10, 1.5)
		Expect(err).To(MatchError(domain.ErrInput))
		Expect(rt.calls).To(Equal(0))
	})
})

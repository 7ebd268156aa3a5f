package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/c-trac/torquebench/internal/llm"
	"github.com/c-trac/torquebench/internal/llm/openai"
)

var _ = Describe("Client.Complete", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		handler  http.HandlerFunc
		client   *openai.Client
		messages []llm.Message
	)

	BeforeEach(func() {
		ctx = context.Background()
		messages = []llm.Message{{Role: "user", Content: "hello"}}
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	JustBeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handler(w, r)
		}))
		client = openai.NewClient(openai.Config{
			APIKey:  "test-key",
			BaseURL: server.URL,
			Model:   "gpt-4o-mini",
		}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	AfterEach(func() {
		server.Close()
	})

	When("the API answers normally", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/chat/completions"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-key"))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

				var body map[string]any
				Expect(json.NewDecoder(r.Body).Decode(&body)).To(Succeed())
				Expect(body["model"]).To(Equal("gpt-4o-mini"))
				Expect(body["messages"]).To(HaveLen(1))

				io.WriteString(w, `{"choices":[{"message":{"content":"  {\"unit\":\"7\"}  "}}]}`)
			}
		})

		It("returns the first choice, trimmed", func() {
			content, err := client.Complete(ctx, messages)
			Expect(err).ToNot(HaveOccurred())
			Expect(content).To(Equal(`{"unit":"7"}`))
		})
	})

	When("the API returns a non-2xx status", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				io.WriteString(w, `{"error":{"message":"Incorrect API key"}}`)
			}
		})

		It("surfaces the status and body", func() {
			_, err := client.Complete(ctx, messages)
			Expect(err).To(MatchError(ContainSubstring("status 401")))
			Expect(err).To(MatchError(ContainSubstring("Incorrect API key")))
		})
	})

	When("the response has no choices", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"choices":[]}`)
			}
		})

		It("returns an error", func() {
			_, err := client.Complete(ctx, messages)
			Expect(err).To(MatchError(ContainSubstring("no choices")))
		})
	})

	When("the response is not JSON", func() {
		BeforeEach(func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `<html>bad gateway</html>`)
			}
		})

		It("returns a decode error", func() {
			_, err := client.Complete(ctx, messages)
			Expect(err).To(MatchError(ContainSubstring("decode")))
		})
	})
})

package ocr

import (
	"context"
	"io"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("OCRSpaceProvider", func() {
	var (
		server   *ghttp.Server
		provider *OCRSpaceProvider
		image    Image
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		provider = NewOCRSpaceProvider("test-key", WithEndpoint(server.URL()+"/parse/image"))
		image = Image{Data: []byte("fake-jpeg"), Filename: "receipt.jpg", ContentType: "image/jpeg"}
	})

	AfterEach(func() {
		server.Close()
	})

	respond := func(status int, body string) {
		server.AppendHandlers(ghttp.CombineHandlers(
			ghttp.VerifyRequest(http.MethodPost, "/parse/image"),
			ghttp.RespondWith(status, body, http.Header{"Content-Type": []string{"application/json"}}),
		))
	}

	Describe("request", func() {
		It("should send the image, api key and language as multipart fields", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest(http.MethodPost, "/parse/image"),
				func(w http.ResponseWriter, r *http.Request) {
					Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
					Expect(r.FormValue("apikey")).To(Equal("test-key"))
					Expect(r.FormValue("language")).To(Equal("eng"))

					file, header, err := r.FormFile("file")
					Expect(err).NotTo(HaveOccurred())
					defer file.Close()
					Expect(header.Filename).To(Equal("receipt.jpg"))
					Expect(header.Header.Get("Content-Type")).To(Equal("image/jpeg"))
					data, err := io.ReadAll(file)
					Expect(err).NotTo(HaveOccurred())
					Expect(string(data)).To(Equal("fake-jpeg"))
				},
				ghttp.RespondWith(http.StatusOK, `{"ParsedResults":[{"ParsedText":"ok"}]}`),
			))

			outcome := provider.ExtractText(context.Background(), image)
			Expect(outcome.OK()).To(BeTrue())
			Expect(server.ReceivedRequests()).To(HaveLen(1))
		})

		It("should honour a language override", func() {
			provider = NewOCRSpaceProvider("test-key",
				WithEndpoint(server.URL()+"/parse/image"),
				WithLanguage("ger"),
			)
			server.AppendHandlers(ghttp.CombineHandlers(
				func(w http.ResponseWriter, r *http.Request) {
					Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
					Expect(r.FormValue("language")).To(Equal("ger"))
				},
				ghttp.RespondWith(http.StatusOK, `{"ParsedResults":[{"ParsedText":"ok"}]}`),
			))

			Expect(provider.ExtractText(context.Background(), image).OK()).To(BeTrue())
		})
	})

	Describe("response classification", func() {
		When("the provider flags a processing error", func() {
			It("should return a provider error with the message and payload", func() {
				body := `{"IsErroredOnProcessing":true,"ErrorMessage":["Invalid API key"],"OCRExitCode":99}`
				respond(http.StatusOK, body)

				outcome := provider.ExtractText(context.Background(), image)
				Expect(outcome.Status).To(Equal(StatusProviderError))
				Expect(outcome.Reason).To(Equal(ReasonProviderError))
				Expect(outcome.Message).To(Equal("Invalid API key"))
				Expect(string(outcome.Payload)).To(MatchJSON(body))
			})

			It("should join several messages", func() {
				respond(http.StatusOK, `{"IsErroredOnProcessing":"True","ErrorMessage":["File too large","Retry later"]}`)

				outcome := provider.ExtractText(context.Background(), image)
				Expect(outcome.Status).To(Equal(StatusProviderError))
				Expect(outcome.Message).To(Equal("File too large; Retry later"))
			})

			It("should fall back to an unknown error message", func() {
				respond(http.StatusOK, `{"IsErroredOnProcessing":true}`)

				outcome := provider.ExtractText(context.Background(), image)
				Expect(outcome.Status).To(Equal(StatusProviderError))
				Expect(outcome.Message).To(Equal("unknown error"))
			})

			It("should classify an errored payload even on a non-200 status", func() {
				respond(http.StatusForbidden, `{"IsErroredOnProcessing":true,"ErrorMessage":"quota exceeded"}`)

				outcome := provider.ExtractText(context.Background(), image)
				Expect(outcome.Status).To(Equal(StatusProviderError))
				Expect(outcome.Message).To(Equal("quota exceeded"))
			})
		})

		DescribeTable("no text detected",
			func(body string) {
				respond(http.StatusOK, body)

				outcome := provider.ExtractText(context.Background(), image)
				Expect(outcome.Status).To(Equal(StatusNoText))
				Expect(outcome.Reason).To(Equal(ReasonNoText))
				Expect(string(outcome.Payload)).To(MatchJSON(body))
			},
			Entry("empty result list", `{"ParsedResults":[],"IsErroredOnProcessing":false}`),
			Entry("missing result list", `{"IsErroredOnProcessing":false}`),
			Entry("null result list", `{"ParsedResults":null}`),
			Entry("result field is not a list", `{"ParsedResults":"nothing"}`),
		)

		It("should return the first parsed text on success", func() {
			respond(http.StatusOK, `{"ParsedResults":[{"ParsedText":"WALMART\nTOTAL 12.50"},{"ParsedText":"page two"}],"IsErroredOnProcessing":false}`)

			outcome := provider.ExtractText(context.Background(), image)
			Expect(outcome.Status).To(Equal(StatusSuccess))
			Expect(outcome.Text).To(Equal("WALMART\nTOTAL 12.50"))
			Expect(outcome.Reason).To(BeEmpty())
		})

		It("should succeed with empty text", func() {
			respond(http.StatusOK, `{"ParsedResults":[{"ParsedText":""}]}`)

			outcome := provider.ExtractText(context.Background(), image)
			Expect(outcome.OK()).To(BeTrue())
			Expect(outcome.Text).To(BeEmpty())
		})
	})

	Describe("transport failures", func() {
		It("should report a malformed body", func() {
			respond(http.StatusOK, `not json`)

			outcome := provider.ExtractText(context.Background(), image)
			Expect(outcome.Status).To(Equal(StatusTransportError))
			Expect(outcome.Reason).To(Equal(ReasonTransportError))
			Expect(outcome.Timeout()).To(BeFalse())
		})

		It("should report an unexpected status", func() {
			respond(http.StatusInternalServerError, `{}`)

			outcome := provider.ExtractText(context.Background(), image)
			Expect(outcome.Status).To(Equal(StatusTransportError))
			Expect(outcome.Message).To(ContainSubstring("unexpected status 500"))
		})

		It("should report an unreachable server", func() {
			url := server.URL()
			server.Close()
			provider = NewOCRSpaceProvider("test-key", WithEndpoint(url+"/parse/image"))

			outcome := provider.ExtractText(context.Background(), image)
			Expect(outcome.Status).To(Equal(StatusTransportError))
			Expect(outcome.Err).To(HaveOccurred())
		})

		It("should mark a client timeout", func() {
			provider = NewOCRSpaceProvider("test-key",
				WithEndpoint(server.URL()+"/parse/image"),
				WithTimeout(50*time.Millisecond),
			)
			server.AppendHandlers(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
			})

			outcome := provider.ExtractText(context.Background(), image)
			Expect(outcome.Status).To(Equal(StatusTransportError))
			Expect(outcome.Timeout()).To(BeTrue())
		})

		It("should mark a context deadline", func() {
			server.AppendHandlers(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
			})
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			outcome := provider.ExtractText(ctx, image)
			Expect(outcome.Status).To(Equal(StatusTransportError))
			Expect(outcome.Timeout()).To(BeTrue())
		})
	})

	It("should report its name", func() {
		Expect(provider.GetProviderName()).To(Equal("OCR.space"))
	})
})

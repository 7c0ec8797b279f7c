package ocr

import (
	"context"
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("GoogleVisionProvider", func() {
	var (
		server   *ghttp.Server
		provider *GoogleVisionProvider
		image    Image
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		provider = NewGoogleVisionProvider("vision-key", server.URL()+"/v1/images:annotate", 0)
		image = Image{Data: []byte("img"), Filename: "r.png", ContentType: "image/png"}
	})

	AfterEach(func() {
		server.Close()
	})

	respond := func(status int, body string) {
		server.AppendHandlers(ghttp.CombineHandlers(
			ghttp.VerifyRequest(http.MethodPost, "/v1/images:annotate", "key=vision-key"),
			ghttp.VerifyContentType("application/json"),
			ghttp.RespondWith(status, body),
		))
	}

	It("should request document text detection for the base64 image", func() {
		server.AppendHandlers(ghttp.CombineHandlers(
			func(w http.ResponseWriter, r *http.Request) {
				var req visionRequest
				Expect(json.NewDecoder(r.Body).Decode(&req)).To(Succeed())
				Expect(req.Requests).To(HaveLen(1))
				Expect(req.Requests[0].Image.Content).To(Equal("aW1n"))
				Expect(req.Requests[0].Features[0].Type).To(Equal("DOCUMENT_TEXT_DETECTION"))
			},
			ghttp.RespondWith(http.StatusOK, `{"responses":[{"textAnnotations":[{"description":"ok"}]}]}`),
		))

		Expect(provider.ExtractText(context.Background(), image).OK()).To(BeTrue())
	})

	It("should return the first annotation on success", func() {
		respond(http.StatusOK, `{"responses":[{"textAnnotations":[{"description":"AEON\nTOTAL 9.90"},{"description":"AEON"}]}]}`)

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusSuccess))
		Expect(outcome.Text).To(Equal("AEON\nTOTAL 9.90"))
	})

	It("should surface an API error as a provider error", func() {
		respond(http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid"}}`)

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusProviderError))
		Expect(outcome.Message).To(Equal("API key not valid"))
	})

	It("should surface a per-image error as a provider error", func() {
		respond(http.StatusOK, `{"responses":[{"error":{"code":3,"message":"Bad image data"}}]}`)

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusProviderError))
		Expect(outcome.Message).To(Equal("Bad image data"))
	})

	DescribeTable("no text detected",
		func(body string) {
			respond(http.StatusOK, body)
			Expect(provider.ExtractText(context.Background(), image).Status).To(Equal(StatusNoText))
		},
		Entry("no responses", `{"responses":[]}`),
		Entry("no annotations", `{"responses":[{}]}`),
	)

	It("should report a non-JSON failure as a transport error", func() {
		respond(http.StatusBadGateway, `<html>bad gateway</html>`)

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusTransportError))
	})

	It("should report a non-200 status without an error body as a transport error", func() {
		respond(http.StatusServiceUnavailable, `{}`)

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusTransportError))
		Expect(outcome.Message).To(ContainSubstring("unexpected status 503"))
	})
})

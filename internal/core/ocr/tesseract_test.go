package ocr

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("TesseractProvider", func() {
	var image Image

	BeforeEach(func() {
		image = Image{Data: []byte("img"), Filename: "receipt.png"}
	})

	// fakeTesseract writes a shell script standing in for the binary
	fakeTesseract := func(script string) string {
		if runtime.GOOS == "windows" {
			Skip("shell scripts are not executable on windows")
		}
		path := filepath.Join(GinkgoT().TempDir(), "tesseract")
		Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755)).To(Succeed())
		return path
	}

	It("should return the recognized text", func() {
		provider := NewTesseractProvider(fakeTesseract(`echo "WALMART"; echo "TOTAL 12.50"`), "")

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusSuccess))
		Expect(outcome.Text).To(Equal("WALMART\nTOTAL 12.50"))
	})

	It("should pass the image path, stdout and language", func() {
		provider := NewTesseractProvider(fakeTesseract(`echo "$2 $3 $4"; test -f "$1" && echo exists`), "msa")

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Text).To(Equal("stdout -l msa\nexists"))
	})

	It("should report blank output as no text", func() {
		provider := NewTesseractProvider(fakeTesseract(`echo "   "`), "")

		Expect(provider.ExtractText(context.Background(), image).Status).To(Equal(StatusNoText))
	})

	It("should report a failing run as a provider error", func() {
		provider := NewTesseractProvider(fakeTesseract(`echo "Error opening data file" >&2; exit 1`), "")

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusProviderError))
		Expect(outcome.Message).To(Equal("Error opening data file"))
		Expect(string(outcome.Payload)).To(MatchJSON(`{"exit_code":1,"stderr":"Error opening data file"}`))
	})

	It("should report a missing binary as a transport error", func() {
		provider := NewTesseractProvider(filepath.Join(GinkgoT().TempDir(), "missing"), "")

		outcome := provider.ExtractText(context.Background(), image)
		Expect(outcome.Status).To(Equal(StatusTransportError))
		Expect(outcome.Err).To(HaveOccurred())
	})

	It("should default its binary and language", func() {
		provider := NewTesseractProvider("", "")
		Expect(provider.tesseractPath).To(Equal("tesseract"))
		Expect(provider.language).To(Equal(DefaultLanguage))
		Expect(provider.GetProviderName()).To(Equal("Tesseract OCR"))
	})
})

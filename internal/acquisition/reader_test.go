package acquisition_test

import (
	"context"
	"io"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/c-trac/torquebench/internal/acquisition"
)

var _ = Describe("Reader.Stream", func() {
	var reader *acquisition.Reader

	BeforeEach(func() {
		reader = acquisition.NewReader(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	drain := func(ch <-chan float64) []float64 {
		var values []float64
		for v := range ch {
			values = append(values, v)
		}
		return values
	}

	It("emits one value per numeric line", func() {
		src := strings.NewReader("90.5\n60.2\n30\n")
		Expect(drain(reader.Stream(context.Background(), src))).
			To(Equal([]float64{90.5, 60.2, 30}))
	})

	It("skips gauge chatter between readings", func() {
		src := strings.NewReader("READY\n90.5 Nm\nPEAK HOLD\n\n60.2\n")
		Expect(drain(reader.Stream(context.Background(), src))).
			To(Equal([]float64{90.5, 60.2}))
	})

	It("closes the channel at end of stream", func() {
		ch := reader.Stream(context.Background(), strings.NewReader(""))
		Eventually(ch).Should(BeClosed())
	})

	It("shuts down when the context is cancelled mid-stream", func() {
		ctx, cancel := context.WithCancel(context.Background())
		ch := reader.Stream(ctx, strings.NewReader("1.0\n2.0\n3.0\n"))

		Eventually(ch).Should(Receive(Equal(1.0)))
		cancel()
		Eventually(ch).Should(BeClosed())
	})
})

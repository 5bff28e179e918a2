package logger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("Logger Environment", func() {
	It("configures production as json info with caller and stacktrace", func() {
		cfg := newProductionLoggerConfig()

		Expect(cfg.Level.Level()).To(Equal(zap.InfoLevel))
		Expect(cfg.Development).To(BeFalse())
		Expect(cfg.DisableCaller).To(BeFalse())
		Expect(cfg.DisableStacktrace).To(BeFalse())
		Expect(cfg.Encoding).To(Equal("json"))
		Expect(cfg.EncoderConfig.TimeKey).To(Equal("timestamp"))
		Expect(cfg.OutputPaths).To(Equal([]string{"stdout"}))
		Expect(cfg.ErrorOutputPaths).To(Equal([]string{"stderr"}))
	})

	It("configures staging like production without caller or stacktrace", func() {
		cfg := newStagingLoggerConfig()

		Expect(cfg.Level.Level()).To(Equal(zap.InfoLevel))
		Expect(cfg.DisableCaller).To(BeTrue())
		Expect(cfg.DisableStacktrace).To(BeTrue())
		Expect(cfg.Encoding).To(Equal("json"))
	})

	It("configures development as console debug", func() {
		cfg := newDevelopmentLoggerConfig()

		Expect(cfg.Level.Level()).To(Equal(zap.DebugLevel))
		Expect(cfg.Development).To(BeTrue())
		Expect(cfg.Encoding).To(Equal("console"))
		Expect(cfg.OutputPaths).To(Equal([]string{"stdout"}))
	})

	It("configures test without any output", func() {
		cfg := newTestLoggerConfig()

		Expect(cfg.Level.Level()).To(Equal(zap.InfoLevel))
		Expect(cfg.Encoding).To(Equal("json"))
		Expect(cfg.OutputPaths).To(BeEmpty())
		Expect(cfg.ErrorOutputPaths).To(BeEmpty())
	})
})

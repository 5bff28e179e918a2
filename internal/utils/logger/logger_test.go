package logger

import (
	"bytes"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dwarvesf/justthetip/internal/types/environments"
)

type customWriteHook struct {
	called bool
}

func (h *customWriteHook) OnWrite(_ *zapcore.CheckedEntry, _ []zapcore.Field) {
	h.called = true
}

// bufferedLogger swaps the zap core for one writing JSON into buf.
func bufferedLogger(buf *bytes.Buffer, level zapcore.Level) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(buf),
		level,
	)
	return &Logger{wrappedLogger: zap.New(core)}
}

var _ = Describe("Logger", func() {
	Describe("#New", func() {
		DescribeTable("builds a logger for every environment",
			func(env environments.Environment) {
				l := New(env)
				Expect(l).NotTo(BeNil())
				Expect(l.wrappedLogger).NotTo(BeNil())
			},
			Entry("production", environments.Production),
			Entry("development", environments.Development),
			Entry("staging", environments.Staging),
			Entry("test", environments.Test),
		)

		It("falls back to production settings for an unknown environment", func() {
			l := New(environments.Environment("unknown"))
			core := l.wrappedLogger.Core()
			Expect(core.Enabled(zapcore.InfoLevel)).To(BeTrue())
			Expect(core.Enabled(zapcore.DebugLevel)).To(BeFalse())
		})
	})

	Describe("levels", func() {
		var (
			buf *bytes.Buffer
			l   *Logger
		)

		BeforeEach(func() {
			buf = &bytes.Buffer{}
			l = bufferedLogger(buf, zapcore.DebugLevel)
		})

		It("writes warn entries with their fields", func() {
			l.Warn("[Check] unknown command type", map[string]string{"command_type": "dance"})
			Expect(buf.String()).To(ContainSubstring(`"level":"warn"`))
			Expect(buf.String()).To(ContainSubstring(`"command_type":"dance"`))
		})

		It("merges several field maps", func() {
			l.Info("merged", map[string]string{"a": "1"}, map[string]string{"b": "2"})
			Expect(buf.String()).To(ContainSubstring(`"a":"1"`))
			Expect(buf.String()).To(ContainSubstring(`"b":"2"`))
		})

		It("accepts calls without fields", func() {
			Expect(func() {
				l.Debug("debug message")
				l.Error("error message")
			}).NotTo(Panic())
			Expect(buf.String()).To(ContainSubstring("error message"))
		})
	})

	Describe("#With", func() {
		It("keeps the bound fields on every entry", func() {
			buf := &bytes.Buffer{}
			child := bufferedLogger(buf, zapcore.InfoLevel).With(map[string]string{"component": "withdrawal"})

			child.Info("first")
			child.Info("second")

			Expect(bytes.Count(buf.Bytes(), []byte(`"component":"withdrawal"`))).To(Equal(2))
		})
	})

	Describe("#Fatal", func() {
		It("invokes the fatal hook", func() {
			hook := &customWriteHook{}
			l := &Logger{wrappedLogger: zap.New(
				zapcore.NewCore(
					zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
					zapcore.AddSync(&bytes.Buffer{}),
					zap.FatalLevel,
				),
				zap.WithFatalHook(hook),
			)}

			l.Fatal("fatal message", map[string]string{"key": "value"})
			Expect(hook.called).To(BeTrue())
		})
	})

	Describe("#transformStrMapToFields", func() {
		It("transforms a string map to zap fields", func() {
			fields := transformStrMapToFields(map[string]string{
				"key1": "value1",
				"key2": "value2",
			})

			sort.Slice(fields, func(i, j int) bool {
				return fields[i].Key < fields[j].Key
			})

			Expect(fields).To(HaveLen(2))
			Expect(fields[0]).To(Equal(zap.String("key1", "value1")))
			Expect(fields[1]).To(Equal(zap.String("key2", "value2")))
		})

		It("returns an empty slice for an empty map", func() {
			Expect(transformStrMapToFields(map[string]string{})).To(BeEmpty())
		})
	})
})

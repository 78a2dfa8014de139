package client

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mdouchement/n11/pkg/libn11"
	"github.com/pkg/errors"
	"github.com/sanity-io/litter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger returns the logger tracing the n11 calls in a rotated file.
// Without filename, nothing is traced.
func NewLogger(filename string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard) // stdout is kept for responses
	log.SetFormatter(new(callFormatter))
	if filename == "" {
		return log
	}

	log.SetLevel(logrus.DebugLevel)
	log.AddHook(&rotateHook{
		writer: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    20, // megabytes
			MaxBackups: 2,
			MaxAge:     10, // days
		},
		formatter: log.Formatter,
	})

	return log
}

// dump returns a Go-like representation of a response, records being rendered as maps.
func dump(response map[string]any) string {
	return litter.Sdump(libn11.ToPlain(response))
}

type rotateHook struct {
	mu        sync.Mutex
	writer    io.Writer
	formatter logrus.Formatter
}

func (h *rotateHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *rotateHook) Fire(entry *logrus.Entry) error {
	line, err := h.formatter.Format(entry)
	if err != nil {
		return errors.Wrap(err, "could not format log entry")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err = h.writer.Write(line)
	return errors.Wrap(err, "could not write log entry")
}

// callFormatter prefixes entries with the call id and the called service operation:
//
//	[2024-01-02T03:04:05Z] DEBUG 6ba7b810 CityService.GetCities: Call succeeded (error=...)
type callFormatter struct{}

func (f *callFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "[%s] %5s", entry.Time.Format(time.RFC3339), strings.ToUpper(entry.Level.String()))

	if id, ok := entry.Data["call_id"]; ok {
		fmt.Fprintf(&b, " %v", id)
	}
	service, hasService := entry.Data["service"]
	operation, hasOperation := entry.Data["operation"]
	call := hasService && hasOperation
	if call {
		fmt.Fprintf(&b, " %v.%v", service, operation)
	}
	fmt.Fprintf(&b, ": %s", entry.Message)

	fields := make([]string, 0, len(entry.Data))
	for k, v := range entry.Data {
		if k == "call_id" || (call && (k == "service" || k == "operation")) {
			continue
		}
		fields = append(fields, fmt.Sprintf("%s=%v", k, v))
	}
	if len(fields) > 0 {
		sort.Strings(fields)
		fmt.Fprintf(&b, " (%s)", strings.Join(fields, ", "))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

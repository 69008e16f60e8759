package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite

	colorBold = 1
)

func colorize(s interface{}, c int, disabled bool) string {
	if disabled {
		return fmt.Sprintf("%s", s)
	}
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

var levelLabels = map[string]struct {
	label string
	color int
	bold  bool
}{
	zerolog.LevelTraceValue: {"TRACE", colorMagenta, false},
	zerolog.LevelDebugValue: {"DEBUG", colorYellow, false},
	zerolog.LevelInfoValue:  {"INFO ", colorGreen, false},
	zerolog.LevelWarnValue:  {"WARN ", colorRed, false},
	zerolog.LevelErrorValue: {"ERROR", colorRed, true},
	zerolog.LevelFatalValue: {"FATAL", colorRed, true},
	zerolog.LevelPanicValue: {"PANIC", colorRed, true},
}

type ThreadSafeWriter struct {
	w io.Writer
}

var globalStdoutMutex sync.Mutex

// Blocking, but good enough to keep log lines from interleaving with the
// terminal display driver
func (tsw ThreadSafeWriter) Write(p []byte) (int, error) {
	globalStdoutMutex.Lock()
	n, err := tsw.w.Write(p)
	globalStdoutMutex.Unlock()
	return n, err
}

func NewThreadSafeWriter(w io.Writer) ThreadSafeWriter {
	return ThreadSafeWriter{w: w}
}

func InitializeLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	noColor := false
	output := zerolog.ConsoleWriter{
		Out:        NewThreadSafeWriter(colorable.NewColorable(os.Stdout)),
		TimeFormat: time.RFC3339,
	}

	output.FormatLevel = func(i interface{}) string {
		ll, ok := i.(string)
		if !ok {
			return "| ???   |"
		}

		entry, known := levelLabels[ll]
		if !known {
			return fmt.Sprintf("| %s |", colorize(ll, colorBold, noColor))
		}

		l := colorize(entry.label, entry.color, noColor)
		if entry.bold {
			l = colorize(l, colorBold, noColor)
		}
		return fmt.Sprintf("| %s |", l)
	}

	log.Logger = log.Output(output)
}

// LoggerMiddleware emits one structured access line per request and turns
// handler panics into a 500.
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("recover_info", rec).
						Bytes("debug_stack", debug.Stack()).
						Msg("HTTP endpoint panic")

					http.Error(ww, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}

				logger.Info().
					Str("type", "access").
					Timestamp().
					Str("remote_ip", r.RemoteAddr).
					Str("method", r.Method).
					Str("url", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes_out", ww.BytesWritten()).
					Float64("latency_ms", float64(time.Since(start).Nanoseconds())/1e6).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// ZerologLogger renders log lines through zerolog's ConsoleWriter, which reads
// better than key=value text when the console is used interactively.
type ZerologLogger struct {
	l zerolog.Logger
}

func NewConsoleLogger(w io.Writer, level slog.Level) *ZerologLogger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !isTerminal(w)}
	l := zerolog.New(cw).Level(zerologLevel(level)).With().Timestamp().Logger()
	return &ZerologLogger{l: l}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Debug(), ctx, msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Info(), ctx, msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Warn(), ctx, msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.event(z.l.Error(), ctx, msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	return &ZerologLogger{l: z.l.With().Fields(pairs(args)).Logger()}
}

func (z *ZerologLogger) event(e *zerolog.Event, ctx context.Context, msg string, args []any) {
	if e == nil {
		return
	}
	e.Ctx(ctx).Fields(pairs(args)).Msg(msg)
}

// pairs turns slog-style key/value args into a zerolog field map. A dangling
// value is stored under "!BADKEY" the same way slog does it.
func pairs(args []any) map[string]any {
	fields := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
		i++
	}
	return fields
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level <= slog.LevelDebug:
		return zerolog.DebugLevel
	case level <= slog.LevelInfo:
		return zerolog.InfoLevel
	case level <= slog.LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// isTerminal reports whether w is an *os.File attached to a terminal; files
// and pipes get plain output.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

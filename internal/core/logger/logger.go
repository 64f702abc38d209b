package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/davstat/internal/interfaces"
)

type Logger struct {
	verbose   bool
	stdLogger zerolog.Logger
	errLogger zerolog.Logger
	files     []*os.File
}

var _ interfaces.FullLogger = (*Logger)(nil)

// New opens the standard and error sinks. "stdout"/"stderr" or "" use the
// console, "discard" drops output, anything else is a file path that is
// created or appended to. Verbose gates Log/Logf; errors are always written.
func New(verbose bool, stdlog, errlog string) (interfaces.FullLogger, error) {
	var files []*os.File

	fail := func(err error) (interfaces.FullLogger, error) {
		for _, f := range files {
			_ = f.Close()
		}
		return nil, err
	}

	stdWriter, err := openSink(stdlog, "stdout", &files)
	if err != nil {
		return fail(fmt.Errorf("cannot open standard log file: %v", err))
	}

	var errWriter io.Writer
	if errlog != "" && errlog == stdlog {
		errWriter = stdWriter
	} else if errWriter, err = openSink(errlog, "stderr", &files); err != nil {
		return fail(fmt.Errorf("cannot open error log file: %v", err))
	}

	return &Logger{
		verbose:   verbose,
		stdLogger: newZerolog(stdWriter),
		errLogger: newZerolog(errWriter),
		files:     files,
	}, nil
}

func openSink(target, console string, files *[]*os.File) (io.Writer, error) {
	switch target {
	case console, "":
		if console == "stdout" {
			return consoleWriter(os.Stdout), nil
		}
		return consoleWriter(os.Stderr), nil
	case "discard":
		return io.Discard, nil
	}

	dir := filepath.Dir(target)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("cannot create log directory: %v", err)
		}
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	*files = append(*files, f)
	return f, nil
}

func consoleWriter(out *os.File) io.Writer {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: "2006/01/02 15:04:05.000000", NoColor: true}
}

func newZerolog(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func (l *Logger) Log(v ...any) {
	if !l.verbose {
		return
	}
	l.stdLogger.Info().Msg(fmt.Sprint(v...))
}

func (l *Logger) Logf(format string, v ...any) {
	if !l.verbose {
		return
	}
	l.stdLogger.Info().Msgf(format, v...)
}

func (l *Logger) Error(v ...any) {
	l.errLogger.Error().Msg(fmt.Sprint(v...))
}

func (l *Logger) Errorf(format string, v ...any) {
	l.errLogger.Error().Msgf(format, v...)
}

func (l *Logger) Close() error {
	var err error
	for _, f := range l.files {
		err = errors.Join(err, f.Close())
	}
	l.files = nil
	return err
}

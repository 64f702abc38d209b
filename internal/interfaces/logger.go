package interfaces

type FormatLogger interface {
	Logf(format string, v ...any)
}

type Logger interface {
	Log(v ...any)
}

type ErrorLogger interface {
	Error(v ...any)
}

type ErrorFormatLogger interface {
	Errorf(format string, v ...any)
}

type LoggerCloser interface {
	Close() error
}

// FullLogger is what the command line entry point hands around; library
// code asks for the narrowest interface above.
type FullLogger interface {
	Logger
	FormatLogger
	ErrorLogger
	ErrorFormatLogger
	LoggerCloser
}

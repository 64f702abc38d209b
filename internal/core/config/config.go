package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	flag "github.com/spf13/pflag"
)

const DefaultWorkers = 4

type Config struct {
	URL     string `validate:"required,url"`
	DavRoot string

	Username string
	Password string

	// Zero keeps the operation defaults (40s read, 5s connect).
	ReadTimeout    time.Duration `validate:"gte=0"`
	ConnectTimeout time.Duration `validate:"gte=0"`

	Workers   int `validate:"min=1,max=64"`
	SkipCheck bool

	Verbose bool
	StdLog  string
	ErrLog  string
}

func ParseConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	// intermediate struct mirrors config file keys (simple mapping)
	var raw struct {
		URL            string `toml:"url"`
		DavRoot        string `toml:"dav-root"`
		Username       string `toml:"username"`
		Password       string `toml:"password"`
		ReadTimeout    string `toml:"read-timeout"`
		ConnectTimeout string `toml:"connect-timeout"`
		Workers        int    `toml:"workers"`
		SkipCheck      bool   `toml:"skip-check"`
		Verbose        bool   `toml:"verbose"`
		Std            string `toml:"std"`
		Err            string `toml:"err"`
	}

	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, err
	}

	cfg := &Config{
		URL:       raw.URL,
		DavRoot:   raw.DavRoot,
		Username:  raw.Username,
		Password:  raw.Password,
		Workers:   raw.Workers,
		SkipCheck: raw.SkipCheck,
		Verbose:   raw.Verbose,
		StdLog:    raw.Std,
		ErrLog:    raw.Err,
	}

	var err error
	if raw.ReadTimeout != "" {
		if cfg.ReadTimeout, err = time.ParseDuration(raw.ReadTimeout); err != nil {
			return nil, fmt.Errorf("read-timeout: %w", err)
		}
	}
	if raw.ConnectTimeout != "" {
		if cfg.ConnectTimeout, err = time.ParseDuration(raw.ConnectTimeout); err != nil {
			return nil, fmt.Errorf("connect-timeout: %w", err)
		}
	}

	return cfg, nil
}

func usage(fs *flag.FlagSet, out io.Writer) func() {
	return func() {
		fmt.Fprintf(out, "Usage: %s [options] <remote-path>...\n", os.Args[0])
		fs.PrintDefaults()
	}
}

// ParseCommandLineArgs parses os.Args.
func ParseCommandLineArgs() (*Config, []string, error) {
	return ParseArgs(os.Args[1:], os.Stderr)
}

// ParseArgs merges the config file named by --config with the flags in
// args; flags that were set explicitly win. The result is validated.
// Remaining positional arguments are returned as remote paths.
func ParseArgs(args []string, out io.Writer) (*Config, []string, error) {
	fs := flag.NewFlagSet("davstat", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = usage(fs, out)

	var (
		configFPtr     = fs.StringP("config", "c", "", "path to config file")
		urlPtr         = fs.StringP("url", "U", "", "server base url")
		davRootPtr     = fs.StringP("dav-root", "r", "", "files collection path, {user} is replaced with the login")
		userPtr        = fs.StringP("user", "u", "", "username:password (shorthand)")
		readTimeoutPtr = fs.Duration("read-timeout", 0, "override the 40s read timeout")
		connTimeoutPtr = fs.Duration("connect-timeout", 0, "override the 5s connect timeout")
		workersPtr     = fs.IntP("workers", "w", DefaultWorkers, "concurrent lookups")
		skipCheckPtr   = fs.Bool("skip-check", false, "do not probe the server before reading")
		verbosePtr     = fs.BoolP("verbose", "v", false, "enable verbose logging")
		stdlogPtr      = fs.StringP("stdlog", "s", "", "path to standard log file")
		errlogPtr      = fs.StringP("errlog", "e", "", "path to error log file")
	)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := ParseConfig(*configFPtr)
	if err != nil {
		return nil, nil, err
	}

	if fs.Lookup("url").Changed {
		cfg.URL = *urlPtr
	}
	if fs.Lookup("dav-root").Changed {
		cfg.DavRoot = *davRootPtr
	}
	if fs.Lookup("read-timeout").Changed {
		cfg.ReadTimeout = *readTimeoutPtr
	}
	if fs.Lookup("connect-timeout").Changed {
		cfg.ConnectTimeout = *connTimeoutPtr
	}
	if fs.Lookup("workers").Changed || cfg.Workers == 0 {
		cfg.Workers = *workersPtr
	}
	if fs.Lookup("skip-check").Changed {
		cfg.SkipCheck = *skipCheckPtr
	}
	if fs.Lookup("verbose").Changed {
		cfg.Verbose = *verbosePtr
	}
	if fs.Lookup("stdlog").Changed {
		cfg.StdLog = *stdlogPtr
	}
	if fs.Lookup("errlog").Changed {
		cfg.ErrLog = *errlogPtr
	}
	if fs.Lookup("user").Changed && *userPtr != "" {
		parts := strings.SplitN(*userPtr, ":", 2)
		cfg.Username = parts[0]
		if len(parts) > 1 {
			cfg.Password = parts[1]
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, nil, err
	}

	return cfg, fs.Args(), nil
}

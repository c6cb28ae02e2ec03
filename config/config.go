package config

import (
	"flag"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var (
	ErrInputPathRequired = errors.New("input file path required as the only positional argument")
	ErrTooManyArguments  = errors.New("exactly one input file path expected")
	ErrFlagAfterInput    = errors.New("flags must precede the input file path")
)

// Config replay settings.
type Config struct {
	// InputPath transaction events CSV.
	InputPath string
	// JournalDir directory of the applied events journal; disabled when empty.
	JournalDir string
	LogLevel   zapcore.Level
}

// ConfigTmp yaml representation of Config.
type ConfigTmp struct {
	JournalDir string `yaml:"journal_dir,omitempty"`
	LogLevel   string `yaml:"log_level,omitempty"`
}

// Get parses command line arguments (without the program name).
// Flags must precede the input path and take precedence over values from
// the --config yaml file.
func Get(args []string) (Config, error) {
	fs := flag.NewFlagSet("txreplay", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "path to yaml config")
	journalDir := fs.String("journal", "", "directory for the applied events journal, disabled if empty")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error (default info)")

	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "parse flags")
	}

	switch fs.NArg() {
	case 0:
		return Config{}, ErrInputPathRequired
	case 1:
	default:
		// flag parsing stops at the first positional argument
		for _, arg := range fs.Args()[1:] {
			if strings.HasPrefix(arg, "-") {
				return Config{}, errors.Wrapf(ErrFlagAfterInput, "%s given after %s", arg, fs.Arg(0))
			}
		}
		return Config{}, ErrTooManyArguments
	}

	tmp := ConfigTmp{}
	if *configPath != "" {
		var err error
		if tmp, err = getYaml(*configPath); err != nil {
			return Config{}, err
		}
	}

	if *journalDir != "" {
		tmp.JournalDir = *journalDir
	}
	if *logLevel != "" {
		tmp.LogLevel = *logLevel
	}

	level := zapcore.InfoLevel
	if tmp.LogLevel != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(tmp.LogLevel))); err != nil {
			return Config{}, errors.Wrapf(err, "incorrect 'log_level' param: %s", tmp.LogLevel)
		}
	}

	return Config{
		InputPath:  fs.Arg(0),
		JournalDir: tmp.JournalDir,
		LogLevel:   level,
	}, nil
}

func getYaml(path string) (ConfigTmp, error) {
	var c ConfigTmp

	f, err := os.ReadFile(path)
	if err != nil {
		return ConfigTmp{}, errors.Wrap(err, "read yaml config")
	}
	if err := yaml.Unmarshal(f, &c); err != nil {
		return ConfigTmp{}, errors.Wrap(err, "decode yaml config")
	}

	return c, nil
}

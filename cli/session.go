package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/nox-hq/palaver/assist"
	"github.com/nox-hq/palaver/core"
	"github.com/nox-hq/palaver/core/conversation"
	"github.com/nox-hq/palaver/core/framing"
	"github.com/nox-hq/palaver/core/transcript"
)

// sessionFlags are the flags shared by every command that starts a
// conversation. Explicitly set flags override .palaver.yaml.
type sessionFlags struct {
	configPath  string
	scheme      string
	schemeFile  string
	provider    string
	script      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
	verbose     bool

	fs *flag.FlagSet
}

func registerSessionFlags(fs *flag.FlagSet) *sessionFlags {
	f := &sessionFlags{fs: fs}
	fs.StringVar(&f.configPath, "config", core.ConfigFileName, "path to config file")
	fs.StringVar(&f.scheme, "scheme", "", "framing preset: "+fmt.Sprint(framing.PresetNames()))
	fs.StringVar(&f.schemeFile, "scheme-file", "", "path to a framing scheme YAML (overrides --scheme)")
	fs.StringVar(&f.provider, "provider", "", "completion provider: openai or dummy")
	fs.StringVar(&f.script, "script", "", "dummy provider script, e.g. \"msg:Hello!,err:down\"")
	fs.StringVar(&f.model, "model", "", "completion model name")
	fs.StringVar(&f.baseURL, "base-url", "", "custom OpenAI-compatible API base URL")
	fs.Float64Var(&f.temperature, "temperature", conversation.DefaultTemperature, "sampling temperature")
	fs.IntVar(&f.maxTokens, "max-tokens", conversation.DefaultMaxTokens, "maximum tokens per reply")
	fs.BoolVar(&f.verbose, "verbose", false, "log prompts and raw completions")
	fs.BoolVar(&f.verbose, "v", false, "log prompts and raw completions (shorthand)")
	return f
}

func (f *sessionFlags) isSet(name string) bool {
	set := false
	f.fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}

// settings merges the config file with explicitly set flags.
func (f *sessionFlags) settings() (*core.Config, error) {
	cfg, err := core.LoadConfigFile(f.configPath)
	if err != nil {
		return nil, err
	}

	c := &cfg.Completion
	if f.isSet("provider") {
		c.Provider = f.provider
	}
	if f.isSet("script") {
		c.Script = f.script
	}
	if f.isSet("model") {
		c.Model = f.model
	}
	if f.isSet("base-url") {
		c.BaseURL = f.baseURL
	}
	if f.isSet("temperature") || c.Temperature == nil {
		t := f.temperature
		c.Temperature = &t
	}
	if f.isSet("max-tokens") || c.MaxTokens <= 0 {
		c.MaxTokens = f.maxTokens
	}
	if c.Provider == "" {
		c.Provider = "openai"
	}

	if f.isSet("scheme") {
		cfg.Framing.Scheme = f.scheme
		cfg.Framing.File = ""
	}
	if f.isSet("scheme-file") {
		cfg.Framing.File = f.schemeFile
	}
	return cfg, nil
}

// newLogger builds the process logger. Debug output includes full prompts.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newCompleter builds the completion backend described by c.
func newCompleter(c core.CompletionSettings) (assist.Completer, error) {
	var completer assist.Completer
	switch c.Provider {
	case "openai":
		timeout, err := c.TimeoutDuration()
		if err != nil {
			return nil, err
		}
		key := c.APIKey()
		if key == "" && c.BaseURL == "" {
			return nil, fmt.Errorf("an API key is required in the environment (or set --base-url for a local endpoint)")
		}

		var opts []assist.OpenAIOption
		if c.Model != "" {
			opts = append(opts, assist.WithModel(c.Model))
		}
		if key != "" {
			opts = append(opts, assist.WithAPIKey(key))
		}
		if c.BaseURL != "" {
			opts = append(opts, assist.WithBaseURL(c.BaseURL))
		}
		if timeout > 0 {
			opts = append(opts, assist.WithTimeout(timeout))
		}
		completer = assist.NewOpenAIProvider(opts...)
	case "dummy":
		p, err := assist.NewScriptedProvider(c.Script)
		if err != nil {
			return nil, err
		}
		completer = p
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or dummy)", c.Provider)
	}
	return assist.NewRateLimited(completer, c.RequestsPerMinute), nil
}

// newConversation wires a fresh transcript, completer and orchestrator.
func newConversation(f *sessionFlags, logger *slog.Logger) (*conversation.Orchestrator, error) {
	cfg, err := f.settings()
	if err != nil {
		return nil, err
	}

	scheme, err := framing.Resolve(cfg.Framing.Scheme, cfg.Framing.File)
	if err != nil {
		return nil, err
	}

	completer, err := newCompleter(cfg.Completion)
	if err != nil {
		return nil, err
	}

	logger.Debug("conversation configured",
		"scheme", scheme.Name(),
		"provider", cfg.Completion.Provider,
		"temperature", *cfg.Completion.Temperature,
		"max_tokens", cfg.Completion.MaxTokens,
	)

	return conversation.New(
		transcript.New(scheme),
		completer,
		conversation.WithTemperature(*cfg.Completion.Temperature),
		conversation.WithMaxTokens(cfg.Completion.MaxTokens),
		conversation.WithLogger(logger),
	), nil
}

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/datetimeagg/dta/pkg/config"
	"github.com/datetimeagg/dta/pkg/extractor"
	"github.com/datetimeagg/dta/pkg/logging"
	"github.com/datetimeagg/dta/pkg/source"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

// EnvPrefix is prepended to flag names to form environment overrides,
// e.g. DTA_TZ or DTA_SPILL_LIMIT.
const EnvPrefix = "DTA"

// storage is the filesystem used for input files, split targets and
// range overflow files.
var storage = afero.NewOsFs()

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	Globs     []string
	Input     string
	Column    int
	Field     string
	TZ        string
	Format    string
	Transform string
	Formats   string
	Output    string
	Verbose   bool
	Quiet     bool
	Debug     bool
}

// AddFlags registers the persistent flags.
func (o *GlobalOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&o.Globs, "glob", "g", nil, "Input files or glob patterns (default: read stdin)")
	fs.StringVarP(&o.Input, "input", "i", "none", "Input type (none|csv|json)")
	fs.IntVarP(&o.Column, "column", "c", 0, "0-based CSV column holding the timestamp")
	fs.StringVarP(&o.Field, "field", "f", "", "JSON field (or gjson path) holding the timestamp")
	fs.StringVar(&o.TZ, "tz", "", "Offset for timestamps without one, e.g. +05:30 or -0800 (default UTC)")
	fs.StringVar(&o.Format, "format", "", "Explicit timestamp format (strftime or Go layout)")
	fs.StringVar(&o.Transform, "transform", "", "Rewrite the timestamp field in output records with this format")
	fs.StringVar(&o.Formats, "formats", "", "Format dictionary YAML file")
	fs.StringVarP(&o.Output, "output", "o", "text", "Output format (text|json)")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "Show run statistics")
	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "Summary only")
	fs.BoolVar(&o.Debug, "debug", false, "Enable debug logging")
}

// ApplyEnvironment sets every flag the user did not pass on the command
// line from its DTA_* environment variable, if present.
func ApplyEnvironment(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if setErr := flags.Set(f.Name, v.GetString(f.Name)); setErr != nil {
			err = fmt.Errorf("environment %s_%s: %w", EnvPrefix, strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), setErr)
		}
	})
	return err
}

// Prepare applies environment overrides and installs the logger in the
// command context. It runs before every command.
func Prepare(cmd *cobra.Command, g *GlobalOptions) error {
	if err := ApplyEnvironment(cmd.Flags()); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.WithLogger(ctx, logging.NewLogger(g.Debug)))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func (o *GlobalOptions) extractor() (extractor.Extractor, error) {
	return extractor.New(extractor.Config{
		Kind:   extractor.Kind(o.Input),
		Column: o.Column,
		Field:  o.Field,
	})
}

// normalizer builds the timestamp normalizer, loading the dictionary when
// --formats (or DTA_FORMATS) names one. It returns the dictionary path used.
func (o *GlobalOptions) normalizer(ctx context.Context, log *zap.SugaredLogger) (*timestamp.Normalizer, string, error) {
	loc, err := timestamp.ResolveLocationOrUTC(o.TZ)
	if err != nil {
		return nil, "", fmt.Errorf("--tz: %w", err)
	}

	opts := []timestamp.Option{timestamp.WithLocation(loc)}
	if o.Format != "" {
		opts = append(opts, timestamp.WithFormat(o.Format))
	}

	path := config.ResolvePath(o.Formats)
	if path != "" {
		formats, err := config.Load(ctx, path)
		if err != nil {
			return nil, "", fmt.Errorf("loading formats: %w", err)
		}
		dict, err := formats.Dictionary(timestamp.WithDictionaryLogger(log))
		if err != nil {
			return nil, "", fmt.Errorf("building dictionary: %w", err)
		}
		opts = append(opts, timestamp.WithDictionary(dict))
	}

	return timestamp.NewNormalizer(opts...), path, nil
}

// source opens the input: the expanded globs, or stdin when none are given.
func (o *GlobalOptions) source(cmd *cobra.Command) (source.Source, []string, error) {
	if len(o.Globs) == 0 {
		return source.NewLineSource(cmd.InOrStdin(), "-"), []string{"-"}, nil
	}

	files, err := source.ExpandGlobs(storage, o.Globs)
	if err != nil {
		return nil, nil, fmt.Errorf("expanding input globs: %w", err)
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no input files matched patterns: %v", o.Globs)
	}
	return source.NewFileSource(storage, files), files, nil
}

// Register adds the persistent flags and every subcommand to root.
func Register(root *cobra.Command) {
	g := &GlobalOptions{}
	g.AddFlags(root.PersistentFlags())

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return Prepare(cmd, g)
	}

	root.AddCommand(NewAggregateCommands(g)...)
	root.AddCommand(NewDetectCommand(g))
	root.AddCommand(NewValidateCommand(g))
	root.AddCommand(NewVersionCommand())
}

package aggregator

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/datetimeagg/dta/pkg/increment"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

// Config holds the construction parameters for every aggregator kind.
// Fields that do not apply to Kind are ignored.
type Config struct {
	Kind Kind

	// Increment and Rounding apply to maxs, mins and counts.
	Increment increment.Increment
	Rounding  increment.Rounding

	// Dir, Template and OpenFiles apply to split.
	Dir       string
	Template  timestamp.Pattern
	OpenFiles int

	// Start, End, Inverted, SpillLimit, SpillDir and Sink apply to range.
	Start      time.Time
	End        time.Time
	Inverted   bool
	SpillLimit int
	SpillDir   string
	Sink       io.Writer

	// Fs backs split targets and the range overflow file. Defaults to the OS.
	Fs afero.Fs

	Logger *zap.SugaredLogger
}

// New creates the aggregator described by cfg.
func New(cfg Config) (Aggregator, error) {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.Kind.Bucketed() && cfg.Increment.TotalSeconds() <= 0 {
		return nil, fmt.Errorf("%s requires a non-zero increment", cfg.Kind)
	}

	switch cfg.Kind {
	case KindMaximum:
		return NewMaximum(), nil
	case KindMinimum:
		return NewMinimum(), nil
	case KindMaximums:
		return NewMaximums(cfg.Increment, cfg.Rounding), nil
	case KindMinimums:
		return NewMinimums(cfg.Increment, cfg.Rounding), nil
	case KindCount:
		return NewCount(), nil
	case KindCounts:
		return NewCounts(cfg.Increment, cfg.Rounding), nil
	case KindSplit:
		return NewSplit(cfg.Fs, cfg.Dir, cfg.Template, cfg.OpenFiles, cfg.Logger)
	case KindRange:
		return NewRange(cfg.Start, cfg.End,
			WithInverted(cfg.Inverted),
			WithSpillLimit(cfg.SpillLimit),
			WithSpillStorage(cfg.Fs, cfg.SpillDir),
			WithSink(cfg.Sink),
			WithRangeLogger(cfg.Logger),
		)
	default:
		return nil, fmt.Errorf("unknown aggregator: %q", cfg.Kind)
	}
}

package aggregator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/datetimeagg/dta/pkg/record"
	"github.com/datetimeagg/dta/pkg/timestamp"
)

// DefaultOpenFiles bounds the number of split targets held open at once.
const DefaultOpenFiles = 64

// Split appends each record to a file named by formatting its timestamp
// with a template. Templates may contain path separators.
type Split struct {
	fs       afero.Fs
	dir      string
	template timestamp.Pattern
	logger   *zap.SugaredLogger

	files    *lru.Cache[string, afero.File]
	targets  map[string]struct{}
	closeErr error
}

// NewSplit creates a split aggregator writing below dir.
func NewSplit(fs afero.Fs, dir string, template timestamp.Pattern, openFiles int, logger *zap.SugaredLogger) (*Split, error) {
	if template.IsZero() {
		return nil, errors.New("split requires a filename template")
	}
	if openFiles <= 0 {
		openFiles = DefaultOpenFiles
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Split{
		fs:       fs,
		dir:      dir,
		template: template,
		logger:   logger,
		targets:  make(map[string]struct{}),
	}

	files, err := lru.NewWithEvict(openFiles, s.evicted)
	if err != nil {
		return nil, err
	}
	s.files = files
	return s, nil
}

func (s *Split) evicted(path string, f afero.File) {
	multierr.AppendInto(&s.closeErr, storageErr("close", path, f.Close()))
}

// Kind returns the aggregator kind.
func (s *Split) Kind() Kind {
	return KindSplit
}

// Update appends the record's raw bytes and a newline to its target.
func (s *Split) Update(_ context.Context, rec record.Record) error {
	name := s.template.Format(rec.Timestamp)
	path := filepath.Join(s.dir, name)

	f, err := s.open(path)
	if err != nil {
		return err
	}

	line := make([]byte, 0, len(rec.Raw)+1)
	line = append(line, rec.Raw...)
	line = append(line, '\n')
	if _, err := f.Write(line); err != nil {
		return storageErr("write", path, err)
	}

	s.targets[name] = struct{}{}
	return nil
}

func (s *Split) open(path string) (afero.File, error) {
	if f, ok := s.files.Get(path); ok {
		return f, nil
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storageErr("mkdir", filepath.Dir(path), err)
	}
	f, err := s.fs.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, storageErr("open", path, err)
	}
	s.logger.Debugw("Opened split target", "path", path)

	s.files.Add(path, f)
	return f, nil
}

// Finalize closes every open target and reports the distinct targets.
func (s *Split) Finalize(_ context.Context) (*Result, error) {
	s.files.Purge()

	targets := make([]string, 0, len(s.targets))
	for name := range s.targets {
		targets = append(targets, name)
	}
	sort.Strings(targets)

	err := s.closeErr
	s.closeErr = nil
	return &Result{Kind: KindSplit, Targets: targets}, err
}

// Abort closes every open target. Data already written stays in place.
func (s *Split) Abort() error {
	s.files.Purge()
	err := s.closeErr
	s.closeErr = nil
	return err
}

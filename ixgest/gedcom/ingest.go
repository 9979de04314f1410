// Package gedcom checks GEDCOM files: it parses them into a validated
// record tree, then reports record counts, header facts and the state of
// every DATE value.
package gedcom

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teranos/kin/dates"
	"github.com/teranos/kin/errors"
	ged "github.com/teranos/kin/gedcom"
	"github.com/teranos/kin/gedcom/grammar"
	"github.com/teranos/kin/logger"
)

// Options configures a GedcomIxProcessor.
type Options struct {
	// Table is the grammar; nil selects the GEDCOM 5.5 table.
	Table *grammar.Table
	// StrictExtensions rejects _TAG vendor extensions.
	StrictExtensions bool
	// Order resolves NN/NN/YYYY dates.
	Order dates.Order
	// Versions is a semver constraint on HEAD.GEDC.VERS; "" disables the check.
	Versions string
	// MaxUnparsable caps the unparsable dates listed in a result.
	MaxUnparsable int
}

// GedcomIxProcessor parses GEDCOM files and builds check results.
type GedcomIxProcessor struct {
	mu       sync.RWMutex
	opts     Options
	parser   *ged.Parser
	dates    *dates.Parser
	versions *semver.Constraints
	logger   *zap.SugaredLogger
}

// NewGedcomIxProcessor creates a processor. A nil logger selects the
// "ix.gedcom" component logger.
func NewGedcomIxProcessor(opts Options, log *zap.SugaredLogger) (*GedcomIxProcessor, error) {
	if log == nil {
		log = logger.ComponentLogger("ix.gedcom")
	}
	p := &GedcomIxProcessor{logger: logger.AddIXSymbol(log)}
	if err := p.Configure(opts); err != nil {
		return nil, err
	}
	return p, nil
}

// Configure replaces the processor's options. Runs already in progress
// keep the options they started with.
func (p *GedcomIxProcessor) Configure(opts Options) error {
	var constraints *semver.Constraints
	if opts.Versions != "" {
		c, err := semver.NewConstraint(opts.Versions)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "version constraint %q: %v", opts.Versions, err)
		}
		constraints = c
	}
	if opts.MaxUnparsable < 0 {
		return errors.Wrapf(errors.ErrInvalidInput, "max unparsable must be >= 0, got %d", opts.MaxUnparsable)
	}

	parser := ged.NewParser(opts.Table,
		ged.WithLogger(p.logger),
		ged.WithStrictExtensions(opts.StrictExtensions),
	)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts = opts
	p.parser = parser
	p.dates = dates.NewParser(dates.Options{Order: opts.Order})
	p.versions = constraints
	return nil
}

type run struct {
	opts     Options
	parser   *ged.Parser
	dates    *dates.Parser
	versions *semver.Constraints
	log      *zap.SugaredLogger
}

func (p *GedcomIxProcessor) snapshot(ctx context.Context) run {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return run{
		opts:     p.opts,
		parser:   p.parser,
		dates:    p.dates,
		versions: p.versions,
		log:      logger.LoggerFromContext(ctx, p.logger),
	}
}

// ProcessFile opens and checks the file at path ("-" for stdin).
func (p *GedcomIxProcessor) ProcessFile(ctx context.Context, path string) (*GedcomProcessingResult, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return p.Process(ctx, src)
}

// Process checks a GEDCOM stream. A parse failure returns the partial
// result (job ID, timing) along with the *gedcom.FormatError or
// *gedcom.StructuralError.
func (p *GedcomIxProcessor) Process(ctx context.Context, src *Source) (*GedcomProcessingResult, error) {
	jobID := logger.JobID(ctx)
	if jobID == "" {
		jobID = uuid.NewString()
		ctx = logger.WithJobID(ctx, jobID)
	}
	r := p.snapshot(ctx)

	result := &GedcomProcessingResult{
		JobID:     jobID,
		File:      src.Name,
		StartTime: time.Now(),
		Records:   map[string]int{},
	}
	finish := func() {
		result.EndTime = time.Now()
		result.DurationMS = result.EndTime.Sub(result.StartTime).Milliseconds()
	}

	root, err := r.parser.Parse(contextReader{ctx, src}, src.Name)
	if err != nil {
		finish()
		result.Message = err.Error()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, errors.Wrapf(ctxErr, "check %s", src.Name)
		}
		return result, err
	}
	result.Digest = src.Digest()
	result.Bytes = src.Bytes()
	result.Compression = src.Compression

	for _, tag := range root.Tags() {
		if n := fieldLen(root, tag); n > 0 {
			result.Records[tag] = n
		}
	}
	result.Header = readHeader(root.Child("HEAD"))
	r.checkVersion(result)

	if err := r.collectDates(ctx, root, result); err != nil {
		finish()
		return result, err
	}

	finish()
	result.Success = true
	result.Message = fmt.Sprintf("%d records, %d dates (%d unparsable)",
		result.RecordCount(), result.Dates.Total, result.Dates.Unparsable)

	r.log.Infow("Checked GEDCOM",
		logger.FieldFile, src.Name,
		logger.FieldRecords, result.RecordCount(),
		"dates", result.Dates.Total,
		"unparsable", result.Dates.Unparsable,
		logger.FieldDigest, result.Digest,
		logger.FieldDurationMS, result.DurationMS,
	)
	return result, nil
}

func fieldLen(r *ged.Record, tag string) int {
	if f, ok := r.Field(tag); ok {
		return f.Len()
	}
	return 0
}

func (r run) checkVersion(result *GedcomProcessingResult) {
	vers := result.Header.GedcomVersion
	if r.versions == nil || vers == "" {
		return
	}
	v, err := semver.NewVersion(vers)
	if err != nil {
		result.VersionWarning = fmt.Sprintf("GEDCOM version %q is not a version number", vers)
	} else if ok, errs := r.versions.Validate(v); !ok {
		result.VersionWarning = fmt.Sprintf("GEDCOM version %s is outside %q", vers, r.opts.Versions)
		if len(errs) > 0 {
			result.VersionWarning += ": " + errs[0].Error()
		}
	}
	if result.VersionWarning != "" {
		r.log.Warnw("Unsupported GEDCOM version",
			logger.FieldFile, result.File,
			logger.FieldVersion, vers,
			"constraint", r.opts.Versions,
		)
	}
}

// collectDates parses every DATE value below each top-level record.
func (r run) collectDates(ctx context.Context, root *ged.Record, result *GedcomProcessingResult) error {
	stats := &result.Dates
	stats.ByCalendar = map[string]int{}

	var unparsable []DateRef
	var earliest, latest *DateRef
	var earliestDate, latestDate dates.Date

	for _, tag := range root.Tags() {
		for _, top := range root.Children(tag) {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "check %s", result.File)
			}
			owner := top.XRef
			if owner == "" {
				owner = top.Tag
			}
			err := top.Walk(func(rec *ged.Record) error {
				for _, v := range dateValues(rec) {
					rng := r.dates.ParseRange(v.Text)
					stats.Total++
					ref := DateRef{
						Text:    v.Text,
						Display: rng.Display(nil, false),
						Event:   rec.Tag,
						Record:  owner,
						Line:    v.Pos.Line,
					}
					if !rng.Known() {
						stats.Unparsable++
						unparsable = append(unparsable, ref)
						r.log.Debugw("Unparsable date",
							logger.FieldDate, v.Text,
							logger.FieldTag, rec.Tag,
							logger.FieldLine, v.Pos.Line,
						)
						continue
					}
					stats.Parsed++
					stats.ByCalendar[rng.Start.Calendar().Name()]++
					if rng.Start.Precision() != dates.Exact {
						stats.Approximate++
					}
					if rng.Span != dates.Single {
						stats.Ranges++
					}

					first, last := rng.Start, rng.Start
					if rng.Span != dates.Single && rng.End.Components().Year {
						last = rng.End
					}
					if first.Components().Year && (earliest == nil || first.Before(earliestDate)) {
						ref := ref
						earliest, earliestDate = &ref, first
					}
					if last.Components().Year && (latest == nil || last.After(latestDate)) {
						ref := ref
						latest, latestDate = &ref, last
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}

	stats.Earliest, stats.Latest = earliest, latest
	sort.SliceStable(unparsable, func(i, j int) bool {
		return unparsable[i].Line < unparsable[j].Line
	})
	if len(unparsable) > r.opts.MaxUnparsable {
		unparsable = unparsable[:r.opts.MaxUnparsable]
	}
	result.Unparsable = unparsable
	return nil
}

// dateValues returns the DATE values of rec, whether its grammar declares
// DATE as a leaf or as a record (HEAD.DATE carries a TIME).
func dateValues(rec *ged.Record) []ged.Value {
	f, ok := rec.Field("DATE")
	if !ok || f.Len() == 0 {
		return nil
	}
	switch f.Kind {
	case ged.Child, ged.ChildList:
		var out []ged.Value
		for _, c := range rec.Children("DATE") {
			out = append(out, ged.Value{Text: c.Value, Pos: c.Pos})
		}
		return out
	}
	return rec.Values("DATE")
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

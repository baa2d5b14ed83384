package distiller

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/distill/internal/distiller/extraction"
	"github.com/mvp-joe/distill/internal/distiller/languages"
	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

// Skip reasons recorded for whole files.
const (
	ReasonUnsupportedLanguage = "unsupported language"
	reasonReadError           = "read error"
)

// Distiller runs the discover, parse, process, measure pipeline.
// A Distiller holds no per-run state and may be reused.
type Distiller struct {
	registry *languages.Registry
	parser   parsers.Parser
	variant  parsers.Variant
	logger   *slog.Logger
	progress ProgressReporter
}

// Option configures a Distiller.
type Option func(*Distiller)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Distiller) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(progress ProgressReporter) Option {
	return func(d *Distiller) {
		if progress != nil {
			d.progress = progress
		}
	}
}

// WithParser uses p for every run instead of building one from the run's
// limits.
func WithParser(p parsers.Parser) Option {
	return func(d *Distiller) {
		d.parser = p
	}
}

// WithParserVariant selects the parser built for each run. The default is
// the hybrid parser.
func WithParserVariant(v parsers.Variant) Option {
	return func(d *Distiller) {
		d.variant = v
	}
}

// New creates a Distiller. A nil registry means languages.NewRegistry().
func New(registry *languages.Registry, opts ...Option) *Distiller {
	if registry == nil {
		registry = languages.NewRegistry()
	}
	d := &Distiller{
		registry: registry,
		variant:  parsers.VariantHybrid,
		logger:   slog.Default(),
		progress: NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Languages lists the languages that have both a parser and a processor,
// with the parser variant that handles each.
func (d *Distiller) Languages() ([]LanguageSupport, error) {
	parser, err := d.parserFor(DefaultOptions())
	if err != nil {
		return nil, err
	}
	var out []LanguageSupport
	for _, lang := range parser.SupportedLanguages() {
		if _, ok := d.registry.Get(lang); !ok {
			continue
		}
		variant := parser.Variant()
		if h, ok := parser.(*parsers.HybridParser); ok {
			variant = h.VariantFor(lang)
		}
		out = append(out, LanguageSupport{Name: lang, Variant: variant})
	}
	return out, nil
}

func (d *Distiller) parserFor(opts Options) (parsers.Parser, error) {
	p := d.parser
	if p == nil {
		var err error
		p, err = parsers.New(d.variant, opts.limits())
		if err != nil {
			return nil, err
		}
	}
	if err := p.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize parser: %w", err)
	}
	return p, nil
}

type fileJob struct {
	rel      string
	language string
}

type fileOutcome struct {
	job     fileJob
	content []byte
	api     *extraction.ExtractedAPI
	skipped []extraction.SkippedItem
}

// Distill processes rootPath, a directory or a single file. Only invalid
// options and a missing root are returned as errors; every per-file problem
// is recorded in the result's skipped list.
func (d *Distiller) Distill(rootPath string, opts Options) (*Result, error) {
	start := time.Now()
	opts = opts.withDefaults()
	logger := d.logger.With("run_id", uuid.NewString())

	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	policy, err := languages.NewPolicy(opts.policy())
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, rootPath)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", rootPath, err)
	}

	baseDir := rootPath
	var files []string
	d.progress.OnDiscoveryStart()
	if info.IsDir() {
		discovery, err := NewFileDiscovery(rootPath, opts.IncludePatterns, opts.ExcludePatterns, logger)
		if err != nil {
			return nil, err
		}
		files, err = discovery.Discover()
		if err != nil {
			return nil, fmt.Errorf("failed to discover files: %w", err)
		}
	} else {
		baseDir = filepath.Dir(rootPath)
		files = []string{filepath.Base(rootPath)}
	}
	d.progress.OnDiscoveryComplete(len(files))
	logger.Debug("discovery complete", "root", rootPath, "files", len(files), "elapsed", time.Since(start))

	parser, err := d.parserFor(opts)
	if err != nil {
		return nil, err
	}

	var jobs []fileJob
	var skipped []extraction.SkippedItem
	for _, rel := range files {
		lang := parsers.DetectLanguage(rel)
		_, hasProcessor := d.registry.Get(lang)
		if lang == "" || !hasProcessor || !parser.IsLanguageSupported(lang) {
			skipped = append(skipped, extraction.SkippedItem{Name: rel, Reason: ReasonUnsupportedLanguage})
			continue
		}
		jobs = append(jobs, fileJob{rel: rel, language: lang})
	}

	cache, err := newParseCache(len(jobs))
	if err != nil {
		return nil, fmt.Errorf("failed to create parse cache: %w", err)
	}
	defer cache.Close()

	d.progress.OnFileProcessingStart(len(jobs))
	processStart := time.Now()
	distill := format != FormatCompressed
	outcomes := make([]fileOutcome, len(jobs))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			outcomes[i] = d.processFile(logger, parser, cache, policy, baseDir, job, distill)
			d.progress.OnFileProcessed(job.rel)
			return nil
		})
	}
	_ = g.Wait()
	logger.Debug("processing complete", "files", len(jobs), "workers", opts.Workers, "elapsed", time.Since(processStart))

	result := &Result{}
	var dist *DistillationResult
	var comp *CompressionResult
	if distill {
		dist = aggregate(outcomes, skipped, opts)
	}
	if format != FormatDistilled {
		comp = compress(outcomes)
	}
	switch format {
	case FormatDistilled:
		result.Distillation = dist
	case FormatCompressed:
		result.Compression = comp
	case FormatBoth:
		result.Combined = &CombinedResult{Compression: comp, Distillation: dist}
	}

	stats := &RunStats{Files: len(jobs), Skipped: len(skipped), Duration: time.Since(start)}
	attrs := []any{"files", len(jobs), "format", string(format), "elapsed", stats.Duration}
	if dist != nil {
		stats.Skipped = len(dist.Metadata.Skipped)
		attrs = append(attrs,
			"skipped", stats.Skipped,
			"original_tokens", dist.Metadata.OriginalTokens,
			"distilled_tokens", dist.Metadata.DistilledTokens,
		)
	}
	d.progress.OnComplete(stats)
	logger.Info("distillation complete", attrs...)

	return result, nil
}

// processFile reads, parses and filters one file. A failure leaves an empty
// API and a skipped entry naming the file.
func (d *Distiller) processFile(
	logger *slog.Logger,
	parser parsers.Parser,
	cache *parseCache,
	policy *languages.Policy,
	baseDir string,
	job fileJob,
	distill bool,
) fileOutcome {
	out := fileOutcome{job: job, api: extraction.NewExtractedAPI(job.rel, job.language)}

	content, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(job.rel)))
	if err != nil {
		logger.Warn("failed to read file", "file", job.rel, "error", err)
		out.skipped = []extraction.SkippedItem{{Name: job.rel, Reason: fmt.Sprintf("%s: %v", reasonReadError, err)}}
		return out
	}
	out.content = content
	if !distill {
		return out
	}

	canonical, err := cache.extract(parser, job.rel, job.language, content)
	if err != nil {
		logger.Warn("failed to parse file", "file", job.rel, "language", job.language, "error", err)
		out.skipped = []extraction.SkippedItem{{Name: job.rel, Reason: err.Error()}}
		return out
	}

	proc, _ := d.registry.Get(job.language)
	out.api, out.skipped = proc.Process(canonical, policy)
	return out
}

func aggregate(outcomes []fileOutcome, skipped []extraction.SkippedItem, opts Options) *DistillationResult {
	res := &DistillationResult{
		APIs: []extraction.ExtractedAPI{},
		Structure: Structure{
			Directories: []string{},
			Languages:   map[string]int{},
		},
		Metadata: Metadata{Skipped: []extraction.SkippedItem{}},
		compact:  opts.Compact,
	}
	res.Metadata.Skipped = append(res.Metadata.Skipped, skipped...)

	dirs := map[string]bool{}
	var sourceBytes, distilledBytes int
	for _, o := range outcomes {
		res.APIs = append(res.APIs, *o.api)
		res.Metadata.Skipped = append(res.Metadata.Skipped, o.skipped...)
		res.Structure.FileCount++
		res.Structure.Languages[o.job.language]++
		dirs[path.Dir(o.job.rel)] = true

		sourceBytes += len(o.content)
		distilledBytes += len(RenderAPI(o.api, opts.Compact))
	}

	for dir := range dirs {
		res.Structure.Directories = append(res.Structure.Directories, dir)
	}
	sort.Strings(res.Structure.Directories)
	sort.SliceStable(res.APIs, func(i, j int) bool { return res.APIs[i].File < res.APIs[j].File })
	sort.SliceStable(res.Metadata.Skipped, func(i, j int) bool {
		a, b := res.Metadata.Skipped[i], res.Metadata.Skipped[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Reason < b.Reason
	})

	res.Metadata.OriginalTokens = EstimateTokens(sourceBytes, opts.BytesPerToken)
	res.Metadata.DistilledTokens = EstimateTokens(distilledBytes, opts.BytesPerToken)
	res.Metadata.CompressionRatio = CompressionRatio(res.Metadata.OriginalTokens, res.Metadata.DistilledTokens)
	return res
}

func compress(outcomes []fileOutcome) *CompressionResult {
	res := &CompressionResult{Files: []CompressedFile{}}
	for _, o := range outcomes {
		if o.content == nil {
			continue
		}
		res.Files = append(res.Files, CompressedFile{Path: o.job.rel, Content: string(o.content)})
	}
	sort.SliceStable(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	return res
}

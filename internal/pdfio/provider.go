// internal/pdfio/provider.go
package pdfio

import (
	"context"
	"fmt"
	"sync"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileProvider serves page metadata for a PDF file. The file is parsed once
// on first access and the page dimensions cached, so repeated lookups during
// placement stay cheap. Safe for concurrent use.
type FileProvider struct {
	path   string
	logger *zap.Logger

	once sync.Once
	dims []types.Dim
	err  error
}

// NewFileProvider creates a provider for the document at path.
func NewFileProvider(path string, logger *zap.Logger) (*FileProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("pdfio: provider requires a document path")
	}
	if logger == nil {
		return nil, fmt.Errorf("pdfio: provider requires a logger")
	}
	return &FileProvider{path: path, logger: logger.Named("PdfProvider")}, nil
}

// Path returns the document path this provider reads.
func (p *FileProvider) Path() string { return p.path }

func (p *FileProvider) load() error {
	p.once.Do(func() {
		dims, err := pdfapi.PageDimsFile(p.path)
		if err != nil {
			p.err = fmt.Errorf("reading page dimensions of %s: %w", p.path, err)
			return
		}
		p.dims = dims
		p.logger.Debug("Source document parsed.",
			zap.String("path", p.path),
			zap.Int("pages", len(dims)))
	})
	return p.err
}

// PageCount returns the number of pages in the document.
func (p *FileProvider) PageCount(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := p.load(); err != nil {
		return 0, err
	}
	return len(p.dims), nil
}

// PageDimensions returns the media box size in points of the 0-based page
// index.
func (p *FileProvider) PageDimensions(ctx context.Context, pageIndex int) (width, height float64, err error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	if err := p.load(); err != nil {
		return 0, 0, err
	}
	if pageIndex < 0 || pageIndex >= len(p.dims) {
		return 0, 0, fmt.Errorf("page index %d out of range, document has %d pages", pageIndex, len(p.dims))
	}
	d := p.dims[pageIndex]
	return d.Width, d.Height, nil
}

// ValidateInput checks that path is a structurally sound PDF before any
// imposition work starts.
func ValidateInput(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := pdfapi.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}
	return nil
}

// MergeInputs concatenates several source documents into a single PDF at
// outPath, in argument order. Inputs are validated concurrently first so a
// broken file fails the run before anything is written.
func MergeInputs(ctx context.Context, paths []string, outPath string, logger *zap.Logger) error {
	if len(paths) == 0 {
		return fmt.Errorf("pdfio: merge requires at least one input")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		g.Go(func() error {
			return ValidateInput(gctx, path)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if logger != nil {
		logger.Debug("Merging source documents.",
			zap.Int("inputs", len(paths)),
			zap.String("output", outPath))
	}
	if err := pdfapi.MergeCreateFile(paths, outPath, false, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("merging %d inputs into %s: %w", len(paths), outPath, err)
	}
	return nil
}

// internal/impose/engine.go
package impose

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
)

// DocumentProvider exposes the source document to the planner. Both
// methods must be safe for concurrent use.
type DocumentProvider interface {
	// PageCount returns the number of pages in the source document.
	PageCount(ctx context.Context) (int, error)
	// PageDimensions returns the media box size in points of the 0-based
	// page index.
	PageDimensions(ctx context.Context, pageIndex int) (width, height float64, err error)
}

// Assembler renders a fully placed plan into an output document. It
// consumes the plan's side order as-is and never re-orders or retries.
type Assembler interface {
	Assemble(ctx context.Context, plan *Plan) error
}

// Request describes one imposition run.
type Request struct {
	Config schemas.ImpositionConfig
	// Preview limits the run to the first Preview signatures' worth of
	// pages; zero imposes the whole document.
	Preview int
}

// Engine runs the imposition pipeline: count, order, place, mark, render.
// It holds no per-run state, so one Engine serves concurrent requests.
type Engine struct {
	logger *zap.Logger
}

// New creates an imposition engine.
func New(logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		return nil, errors.New("impose: engine requires a logger")
	}
	return &Engine{logger: logger.Named("ImposeEngine")}, nil
}

// Stats computes plan statistics for the provider's document without
// building a plan or touching an assembler.
func (e *Engine) Stats(ctx context.Context, cfg schemas.ImpositionConfig, provider DocumentProvider) (schemas.ImpositionStats, error) {
	if provider == nil {
		return schemas.ImpositionStats{}, errors.New("impose: stats requires a document provider")
	}
	count, err := provider.PageCount(ctx)
	if err != nil {
		return schemas.ImpositionStats{}, NewAssemblyError("page count", err)
	}
	return ComputeStats(cfg, count)
}

// Plan builds the fully placed plan for the provider's document: page
// order, sheet geometry, per-slot placements and printer's marks.
func (e *Engine) Plan(ctx context.Context, req Request, provider DocumentProvider) (*Plan, error) {
	if provider == nil {
		return nil, errors.New("impose: plan requires a document provider")
	}

	count, err := provider.PageCount(ctx)
	if err != nil {
		return nil, NewAssemblyError("page count", err)
	}
	if req.Preview > 0 {
		if limit := req.Preview * req.Config.Arrangement.PagesPerSignature(); count > limit {
			e.logger.Debug("Limiting plan to preview window.",
				zap.Int("signatures", req.Preview),
				zap.Int("pages", limit))
			count = limit
		}
	}

	plan, err := BuildPlan(req.Config, count)
	if err != nil {
		return nil, err
	}
	if err := e.resolvePlacements(ctx, plan, provider); err != nil {
		return nil, err
	}
	e.attachMarks(plan)

	e.logger.Debug("Plan built.",
		zap.Int("source_pages", plan.Stats.SourcePageCount),
		zap.Int("signatures", plan.Stats.SignatureCount),
		zap.Int("sheets", plan.Stats.OutputSheetCount),
		zap.Int("blanks", plan.Stats.BlankPagesAdded))
	return plan, nil
}

// Impose runs the full pipeline and hands the placed plan to the
// assembler. Assembler failures pass through unchanged.
func (e *Engine) Impose(ctx context.Context, req Request, provider DocumentProvider, assembler Assembler) (*Plan, error) {
	if assembler == nil {
		return nil, errors.New("impose: impose requires an assembler")
	}
	plan, err := e.Plan(ctx, req, provider)
	if err != nil {
		return nil, err
	}
	if err := assembler.Assemble(ctx, plan); err != nil {
		if errors.Is(err, ErrAssembly) {
			return nil, err
		}
		return nil, NewAssemblyError("render", err)
	}
	e.logger.Info("Imposition complete.",
		zap.Int("sheets", plan.Stats.OutputSheetCount),
		zap.Int("output_pages", plan.Stats.OutputPageCount))
	return plan, nil
}

// resolvePlacements fills in every non-blank slot's placement from the
// provider's page dimensions. Quarter-turn source rotation swaps the
// effective page dimensions before placement.
func (e *Engine) resolvePlacements(ctx context.Context, plan *Plan, provider DocumentProvider) error {
	swap := plan.Config.SourceRotation == 90 || plan.Config.SourceRotation == 270
	for si := range plan.Sheets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sheet := &plan.Sheets[si]
		if sheet.Flyleaf {
			continue
		}
		for _, side := range []*Side{&sheet.Front, &sheet.Back} {
			for i := range side.Slots {
				slot := &side.Slots[i]
				if slot.Blank() {
					continue
				}
				w, h, err := provider.PageDimensions(ctx, slot.Source)
				if err != nil {
					return NewAssemblyError("page dimensions", err)
				}
				if swap {
					w, h = h, w
				}
				if err := checkPageDims(slot.Page, sheet.Index, slot.Index, w, h); err != nil {
					return err
				}
				p := placePage(slot.Content, w, h, plan.Config.Scaling, slot.Rotated)
				slot.Placement = &p
			}
		}
	}
	return nil
}

// attachMarks generates the printer's marks for every sheet side.
func (e *Engine) attachMarks(plan *Plan) {
	for si := range plan.Sheets {
		sheet := &plan.Sheets[si]
		sheet.Front.Marks = buildSideMarks(sheet, &sheet.Front, plan.Config, plan.Stats.SignatureCount)
		sheet.Back.Marks = buildSideMarks(sheet, &sheet.Back, plan.Config, plan.Stats.SignatureCount)
	}
}

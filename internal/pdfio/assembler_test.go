// internal/pdfio/assembler_test.go
package pdfio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
	"github.com/inkfold/bindery/internal/impose"
)

func TestNewAssembler_Validation(t *testing.T) {
	_, err := NewAssembler("", "out.pdf", zap.NewNop())
	require.Error(t, err)
	_, err = NewAssembler("in.pdf", "", zap.NewNop())
	require.Error(t, err)
	_, err = NewAssembler("in.pdf", "out.pdf", nil)
	require.Error(t, err)
}

// pageCountOf reads back an output file's page count.
func pageCountOf(t *testing.T, path string) int {
	t.Helper()
	p, err := NewFileProvider(path, zap.NewNop())
	require.NoError(t, err)
	count, err := p.PageCount(context.Background())
	require.NoError(t, err)
	return count
}

// TestAssembler_EndToEnd imposes a generated 8-page document as one quarto
// signature and reads the output back. One signature, one sheet, two
// output pages of sheet size.
func TestAssembler_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.pdf")
	writeFixturePDF(t, source, 8)

	cfg := schemas.DefaultImpositionConfig()
	cfg.Marks = schemas.AllMarks()
	cfg.PageNumbers = schemas.PageNumberOptions{Enabled: true, Start: 1}

	engine, err := impose.New(zap.NewNop())
	require.NoError(t, err)
	provider, err := NewFileProvider(source, zap.NewNop())
	require.NoError(t, err)

	out := filepath.Join(dir, "imposed.pdf")
	assembler, err := NewAssembler(source, out, zap.NewNop())
	require.NoError(t, err)

	plan, err := engine.Impose(context.Background(), impose.Request{Config: cfg}, provider, assembler)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Stats.OutputPageCount)

	require.FileExists(t, out)
	assert.Equal(t, 2, pageCountOf(t, out))
	assert.NoError(t, ValidateInput(context.Background(), out))

	w, h, err := mustProvider(t, out).PageDimensions(context.Background(), 0)
	require.NoError(t, err)
	assert.InDelta(t, 612, w, 0.5, "output pages are sheet sized")
	assert.InDelta(t, 792, h, 0.5)
}

func mustProvider(t *testing.T, path string) *FileProvider {
	t.Helper()
	p, err := NewFileProvider(path, zap.NewNop())
	require.NoError(t, err)
	return p
}

// TestAssembler_SplitBySignatures renders a 16-page folio book split two
// signatures per file.
func TestAssembler_SplitBySignatures(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.pdf")
	writeFixturePDF(t, source, 16)

	cfg := schemas.DefaultImpositionConfig()
	cfg.Arrangement = schemas.Folio()
	cfg.Split = schemas.SplitMode{Kind: schemas.SplitSignatures, Every: 2}

	engine, err := impose.New(zap.NewNop())
	require.NoError(t, err)
	out := filepath.Join(dir, "book.pdf")
	assembler, err := NewAssembler(source, out, zap.NewNop())
	require.NoError(t, err)

	_, err = engine.Impose(context.Background(), impose.Request{Config: cfg},
		mustProvider(t, source), assembler)
	require.NoError(t, err)

	// Four signatures, two per file.
	first := filepath.Join(dir, "book-001.pdf")
	second := filepath.Join(dir, "book-002.pdf")
	require.FileExists(t, first)
	require.FileExists(t, second)
	assert.Equal(t, 4, pageCountOf(t, first))
	assert.Equal(t, 4, pageCountOf(t, second))

	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err), "unsplit path must not be written")
}

// TestAssembler_FlyleavesAndBlanks renders a short document padded with
// blanks and wrapped in flyleaf sheets.
func TestAssembler_FlyleavesAndBlanks(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.pdf")
	writeFixturePDF(t, source, 3)

	cfg := schemas.DefaultImpositionConfig()
	cfg.Arrangement = schemas.Folio()
	cfg.Flyleaves = schemas.Flyleaves{Front: 1, Back: 1}

	engine, err := impose.New(zap.NewNop())
	require.NoError(t, err)
	out := filepath.Join(dir, "padded.pdf")
	assembler, err := NewAssembler(source, out, zap.NewNop())
	require.NoError(t, err)

	plan, err := engine.Impose(context.Background(), impose.Request{Config: cfg},
		mustProvider(t, source), assembler)
	require.NoError(t, err)

	// One body sheet plus two flyleaves, duplex.
	assert.Equal(t, 3, plan.Stats.OutputSheetCount)
	assert.Equal(t, 6, pageCountOf(t, out))
}

// TestAssembler_UnreadableSource checks that importer failures surface as
// errors instead of crashing the run.
func TestAssembler_UnreadableSource(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(source, []byte("not a pdf"), 0o644))

	cfg := schemas.DefaultImpositionConfig()
	plan, err := impose.BuildPlan(cfg, 8)
	require.NoError(t, err)
	for si := range plan.Sheets {
		for _, side := range []*impose.Side{&plan.Sheets[si].Front, &plan.Sheets[si].Back} {
			for i := range side.Slots {
				if side.Slots[i].Blank() {
					continue
				}
				p := impose.Placement{Target: side.Slots[i].Content, ScaleX: 1, ScaleY: 1}
				side.Slots[i].Placement = &p
			}
		}
	}

	assembler, err := NewAssembler(source, filepath.Join(dir, "out.pdf"), zap.NewNop())
	require.NoError(t, err)

	err = assembler.Assemble(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.pdf")
}

// TestAssembler_EmptyPlan rejects plans with nothing to render.
func TestAssembler_EmptyPlan(t *testing.T) {
	plan, err := impose.BuildPlan(schemas.DefaultImpositionConfig(), 0)
	require.NoError(t, err)

	assembler, err := NewAssembler("in.pdf", "out.pdf", zap.NewNop())
	require.NoError(t, err)
	require.Error(t, assembler.Assemble(context.Background(), plan))
}

// TestAssembler_CanceledContext stops rendering between sides.
func TestAssembler_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.pdf")
	writeFixturePDF(t, source, 8)

	engine, err := impose.New(zap.NewNop())
	require.NoError(t, err)
	plan, err := engine.Plan(context.Background(), impose.Request{Config: schemas.DefaultImpositionConfig()},
		mustProvider(t, source))
	require.NoError(t, err)

	assembler, err := NewAssembler(source, filepath.Join(dir, "out.pdf"), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = assembler.Assemble(ctx, plan)
	assert.ErrorIs(t, err, context.Canceled)
}

package report

import (
	"bufio"
	"fmt"
	"os"

	"wasmbench/domain/core"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgpdf"
)

// Page size of every figure
const (
	PageWidth  = 6 * vg.Inch
	PageHeight = 4 * vg.Inch
)

// Document is a multi-page PDF. Pages are buffered on the canvas and written
// when the document is closed.
type Document struct {
	path   string
	file   *os.File
	canvas *vgpdf.Canvas
	pages  int
	closed bool
}

// Create opens path for writing and starts an empty document
func Create(path string) (*Document, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report %s: %w", path, err)
	}
	canvas := vgpdf.New(PageWidth, PageHeight)
	canvas.EmbedFonts(true)
	return &Document{path: path, file: file, canvas: canvas}, nil
}

// Pages returns the number of pages added so far
func (d *Document) Pages() int { return d.pages }

// AddPage draws p on a new page
func (d *Document) AddPage(p *plot.Plot) error {
	if d.closed {
		return core.ErrDocumentClosed
	}
	if d.pages > 0 {
		d.canvas.NextPage()
	}
	p.Draw(draw.New(d.canvas))
	d.pages++
	return nil
}

// Close writes every page and closes the file. Calls after the first are no-ops.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	w := bufio.NewWriter(d.file)
	if _, err := d.canvas.WriteTo(w); err != nil {
		return d.discard(fmt.Errorf("failed to write report %s: %w", d.path, err))
	}
	if err := w.Flush(); err != nil {
		return d.discard(fmt.Errorf("failed to flush report %s: %w", d.path, err))
	}
	if err := d.file.Close(); err != nil {
		return d.discard(fmt.Errorf("failed to close report %s: %w", d.path, err))
	}
	return nil
}

// discard removes a report that could not be written completely
func (d *Document) discard(cause error) error {
	d.file.Close()
	if err := os.Remove(d.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w (removing %s: %v)", cause, d.path, err)
	}
	return cause
}

// Abort ends a failed run. With keepPartial the pages added so far are
// written, otherwise the output file is removed. Abort after Close is a no-op.
func (d *Document) Abort(keepPartial bool) error {
	if d.closed {
		return nil
	}
	if keepPartial && d.pages > 0 {
		return d.Close()
	}
	d.closed = true
	d.file.Close()
	if err := os.Remove(d.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove partial report %s: %w", d.path, err)
	}
	return nil
}

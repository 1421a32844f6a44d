package ports

import "gonum.org/v1/plot"

// DocumentPort is a sequential multi-page report
type DocumentPort interface {
	AddPage(p *plot.Plot) error
	Pages() int
	// Close finalizes the document. It is safe to call more than once.
	Close() error
	// Abort ends a failed run, keeping the pages written so far if keepPartial
	Abort(keepPartial bool) error
}

// DocumentFactory opens a document at path
type DocumentFactory func(path string) (DocumentPort, error)

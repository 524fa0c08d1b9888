// Package markers implements the output stream protocol between a component
// and the RMM host: a diagnostic block of free text for the operator,
// followed by a result block containing exactly one status line. Only the
// result block is machine-parsed.
package markers

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// Marker tokens, each emitted on its own line. The host matches them
// literally, so they must be reproduced byte-exactly.
const (
	StartDiagnostic = "<-Start Diagnostic->"
	EndDiagnostic   = "<-End Diagnostic->"
	StartResult     = "<-Start Result->"
	EndResult       = "<-End Result->"
)

// ErrResultWritten is returned when a second result block is attempted.
var ErrResultWritten = errors.New("result block already written")

// Writer emits the marker protocol onto an output stream. It enforces the
// ordering invariant: an open diagnostic block is always closed before the
// result block starts, and at most one result block is ever written.
//
// Writer is safe for concurrent use. A check abandoned by a timeout may
// still attempt diagnostic writes; once the result block is out, those
// writes are dropped rather than corrupting the protocol.
type Writer struct {
	mu            sync.Mutex
	out           io.Writer
	diagOpen      bool
	resultWritten bool
}

// NewWriter returns a Writer emitting to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// OpenDiagnostic starts the diagnostic block. Opening an already-open block
// is a no-op.
func (w *Writer) OpenDiagnostic() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.openDiagnostic()
}

func (w *Writer) openDiagnostic() {
	if w.diagOpen || w.resultWritten {
		return
	}
	w.diagOpen = true
	fmt.Fprintln(w.out, StartDiagnostic)
}

// Diagf writes one free-text diagnostic line, opening the block first if
// needed. Diagnostic text is advisory only; the host never parses it.
func (w *Writer) Diagf(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resultWritten {
		return
	}
	w.openDiagnostic()
	fmt.Fprintf(w.out, format+"\n", args...)
}

// CloseDiagnostic ends the diagnostic block. Closing a block that is not
// open is a no-op.
func (w *Writer) CloseDiagnostic() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeDiagnostic()
}

func (w *Writer) closeDiagnostic() {
	if !w.diagOpen {
		return
	}
	w.diagOpen = false
	fmt.Fprintln(w.out, EndDiagnostic)
}

// WriteResult emits the result block around the given status line. Any open
// diagnostic block is closed first, so the blocks can never interleave.
// A second call returns ErrResultWritten without emitting anything.
func (w *Writer) WriteResult(statusLine string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resultWritten {
		return ErrResultWritten
	}
	w.closeDiagnostic()
	w.resultWritten = true
	fmt.Fprintln(w.out, StartResult)
	fmt.Fprintln(w.out, statusLine)
	fmt.Fprintln(w.out, EndResult)
	return nil
}

// ResultWritten reports whether the result block has been emitted.
func (w *Writer) ResultWritten() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resultWritten
}

// Package cpitest provides a recording Invoker for adapter tests.
package cpitest

import (
	"github.com/arpeggio-fi/arpeggio/internal/cpi"
)

// Recorder captures every invocation it receives, optionally failing at a
// chosen call index to exercise abort-on-first-failure paths.
type Recorder struct {
	Calls []RecordedCall

	// FailAt makes call number FailAt (0-based) return FailErr without being
	// recorded as succeeded. Negative means never fail.
	FailAt  int
	FailErr error
}

// RecordedCall is one captured invocation plus the seeds it carried.
type RecordedCall struct {
	Invocation cpi.Invocation
	Seeds      []cpi.SignerSeeds
}

// New returns a Recorder that never fails.
func New() *Recorder {
	return &Recorder{FailAt: -1}
}

// FailingAt returns a Recorder whose n-th call (0-based) fails with err.
func FailingAt(n int, err error) *Recorder {
	return &Recorder{FailAt: n, FailErr: err}
}

// InvokeSigned implements cpi.Invoker. The invocation is copied shallowly so
// later mutations by the caller do not rewrite history.
func (r *Recorder) InvokeSigned(inv *cpi.Invocation, seeds []cpi.SignerSeeds) error {
	if r.FailAt >= 0 && len(r.Calls) == r.FailAt {
		return r.FailErr
	}
	data := make([]byte, len(inv.Data))
	copy(data, inv.Data)
	recorded := *inv
	recorded.Data = data
	r.Calls = append(r.Calls, RecordedCall{Invocation: recorded, Seeds: seeds})
	return nil
}

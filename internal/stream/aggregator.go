// Package stream folds an ordered fragment sequence into a single growing
// accumulated result that is safe to re-render after every fold.
package stream

import "github.com/okulab/sage/internal/gemini"

// State marks the lifecycle of an accumulated result.
type State string

const (
	StateOpen     State = "open"
	StateComplete State = "complete"
)

// Accumulated is the running merge of all fragments seen so far for one
// request. Text is append-only for the lifetime of the request and the
// citation set never holds two entries with the same URI. An Accumulated
// value belongs to exactly one request and is never reused across requests.
type Accumulated struct {
	Text      string
	Citations []gemini.Citation
	State     State
	// Err is the classified provider error when the stream ended with a
	// terminal error fragment. The error text itself is part of Text; this
	// field lets callers special-case failures without string matching.
	Err error
}

// New returns an empty, open accumulated result.
func New() Accumulated {
	return Accumulated{State: StateOpen}
}

// Fold merges one fragment into acc and returns the new accumulated state.
// Text is a plain append. Citations are concatenated in arrival order and
// de-duplicated by URI, first occurrence wins: a later citation with a known
// URI never replaces the earlier title. Error fragments fold like any other
// fragment; Fold never drops, reorders, or special-cases.
func Fold(acc Accumulated, frag gemini.Fragment) Accumulated {
	acc.Text += frag.TextDelta
	if len(frag.Citations) > 0 {
		acc.Citations = mergeCitations(acc.Citations, frag.Citations)
	}
	if frag.Err != nil {
		acc.Err = frag.Err
	}
	acc.State = StateOpen
	return acc
}

// Finalize marks acc complete. Called once the source sequence is
// exhausted; this is the only terminal state at this layer, reached on the
// normal path and after a terminal error fragment alike.
func Finalize(acc Accumulated) Accumulated {
	acc.State = StateComplete
	return acc
}

// Consume drains src in order, folding every fragment and reporting each
// snapshot to onFold, then finalizes. Fragments are pulled one at a time;
// nothing is buffered beyond the in-flight chunk.
func Consume(src gemini.FragmentSource, onFold func(Accumulated)) Accumulated {
	acc := New()
	for {
		frag, ok := src.Next()
		if !ok {
			break
		}
		acc = Fold(acc, frag)
		if onFold != nil {
			onFold(acc)
		}
	}
	return Finalize(acc)
}

func mergeCitations(existing, incoming []gemini.Citation) []gemini.Citation {
	// Copy instead of appending in place so previously returned snapshots
	// are never mutated behind the caller's back.
	merged := make([]gemini.Citation, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	seen := make(map[string]bool, len(merged))
	for _, c := range merged {
		seen[c.URI] = true
	}
	for _, c := range incoming {
		if c.URI == "" || seen[c.URI] {
			continue
		}
		seen[c.URI] = true
		merged = append(merged, c)
	}
	return merged
}

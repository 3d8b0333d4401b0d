package annotate

import "github.com/poiesic/lexlink/core"

// WindowFunc proposes candidate text windows over the regions of a document
// not covered by any accepted annotation. The engine embeds each window and
// looks it up in the semantic index; windowing strategy is a caller concern
// (noun phrases, n-grams, whole residual runs) and this type is the seam.
//
// Returned spans carry only offsets; source, candidates, and confidence are
// filled in by the semantic lookup.
type WindowFunc func(doc *core.Document, covered []core.Annotation) []core.Span

// NGramWindows returns the default windowing strategy: within each maximal
// run of uncovered tokens it emits every n-gram of up to maxN tokens, longer
// windows first so the merger sees the strongest candidates early.
func NGramWindows(maxN int) WindowFunc {
	if maxN < 1 {
		maxN = 1
	}
	return func(doc *core.Document, covered []core.Annotation) []core.Span {
		var windows []core.Span
		for _, run := range uncoveredRuns(doc, covered) {
			runLen := run.end - run.start
			for n := min(maxN, runLen); n >= 1; n-- {
				for i := run.start; i+n <= run.end; i++ {
					windows = append(windows, core.Span{
						Start:      doc.Tokens[i].Start,
						End:        doc.Tokens[i+n-1].End,
						TokenStart: i,
						TokenEnd:   i + n,
					})
				}
			}
		}
		return windows
	}
}

type tokenRun struct {
	start, end int
}

// uncoveredRuns returns maximal runs of token indexes whose character ranges
// do not intersect any accepted annotation.
func uncoveredRuns(doc *core.Document, covered []core.Annotation) []tokenRun {
	var runs []tokenRun
	runStart := -1
	for i, tok := range doc.Tokens {
		free := true
		for _, a := range covered {
			if tok.Start < a.End && a.Start < tok.End {
				free = false
				break
			}
		}
		if free {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			runs = append(runs, tokenRun{start: runStart, end: i})
			runStart = -1
		}
	}
	if runStart >= 0 {
		runs = append(runs, tokenRun{start: runStart, end: len(doc.Tokens)})
	}
	return runs
}

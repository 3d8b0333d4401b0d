package annotate

import "github.com/poiesic/lexlink/core"

// AnnotateMonitor provides hooks to observe the annotation process.
// Implement this interface to track intermediate steps and results.
type AnnotateMonitor interface {
	Start(doc *core.Document)
	AfterDictionaryMatch(spans []core.Span)
	AfterCombinedMatch(spans []core.Span)
	AfterLexicalMerge(annotations []core.Annotation)
	SemanticWindow(window core.Span)
	SemanticHit(span core.Span)
	AfterSemanticMerge(annotations []core.Annotation)
	Finish(annotations []core.Annotation)
}

// noopMonitor is a no-op implementation of AnnotateMonitor
type noopMonitor struct{}

var _ AnnotateMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.Document)                    {}
func (n *noopMonitor) AfterDictionaryMatch(_ []core.Span)        {}
func (n *noopMonitor) AfterCombinedMatch(_ []core.Span)          {}
func (n *noopMonitor) AfterLexicalMerge(_ []core.Annotation)     {}
func (n *noopMonitor) SemanticWindow(_ core.Span)                {}
func (n *noopMonitor) SemanticHit(_ core.Span)                   {}
func (n *noopMonitor) AfterSemanticMerge(_ []core.Annotation)    {}
func (n *noopMonitor) Finish(_ []core.Annotation)                {}

// Package summarizer selects the summarizer implementation for a
// configured command spec.
package summarizer

import (
	"fmt"

	"github.com/haldiza/recapd/internal/adapters/driven/summarizer/command"
	"github.com/haldiza/recapd/internal/adapters/driven/summarizer/ocr"
	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.SummarizerFactory = (*Factory)(nil)

// Factory builds summarizers from command specs.
type Factory struct{}

// NewFactory creates a factory.
func NewFactory() *Factory {
	return &Factory{}
}

// For returns the summarizer for spec.
func (f *Factory) For(spec domain.CommandSpec) (driven.Summarizer, error) {
	switch spec.Kind {
	case domain.SummarizerOCR:
		return ocr.New(), nil
	case domain.SummarizerCommand:
		if spec.Template == "" {
			return nil, fmt.Errorf("%w: command %q has an empty template",
				domain.ErrInvalidInput, spec.Name)
		}
		return command.New(spec), nil
	default:
		return nil, fmt.Errorf("%w: unknown summarizer kind %q",
			domain.ErrInvalidInput, spec.Kind)
	}
}

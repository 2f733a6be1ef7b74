package generator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"pargen/internal/domain"
	"pargen/internal/port"
)

// Assembler drives the section generator across all section groups in
// dependency order and produces the full report text. One Assembler value
// serves one job at a time; it holds no state between runs.
type Assembler struct {
	gen port.TextGenerator
}

// NewAssembler creates an Assembler backed by the given text generator.
func NewAssembler(gen port.TextGenerator) *Assembler {
	return &Assembler{gen: gen}
}

// Assemble generates every section group strictly in order, threading the
// accumulated text of earlier groups into later prompts. Any failed call
// aborts the run; no partial result is returned.
func (a *Assembler) Assemble(ctx context.Context, in Inputs) (*domain.AssembledReport, error) {
	sections := make([]domain.SectionResult, 0, len(SectionSpecs))
	prior := make([]string, 0, len(SectionSpecs))

	for _, spec := range SectionSpecs {
		log.Printf("Assembler.Assemble: generating section group %s", spec.ID)
		text, err := a.gen.Generate(ctx, port.GenerateRequest{
			System:    spec.System,
			Prompt:    spec.Prompt(in, strings.Join(prior, "\n\n")),
			MaxTokens: spec.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("generating section group %s: %w", spec.ID, err)
		}
		sections = append(sections, domain.SectionResult{ID: spec.ID, Text: text})
		prior = append(prior, text)
	}

	return &domain.AssembledReport{
		Cover:    CoverText(),
		TOC:      TOCText(),
		Body:     strings.Join(prior, "\n\n"),
		Sections: sections,
	}, nil
}

// BuildInputs maps extracted texts keyed by slot file name into the ordered
// input structure the section prompts consume. Keys are the nine required
// slot names; missing entries contribute empty text.
func BuildInputs(texts map[string]string) Inputs {
	in := Inputs{
		Transcript: texts["Transcript.pdf"],
		Intake:     texts["IntakeForm_Results.pdf"],
	}
	for _, slot := range domain.TestResultSlots {
		in.TestResults = append(in.TestResults, NamedText{
			Name: baseName(slot),
			Text: texts[slot],
		})
	}
	for _, slot := range domain.RequiredInputSlots {
		in.AllTexts = append(in.AllTexts, NamedText{
			Name: baseName(slot),
			Text: texts[slot],
		})
	}
	return in
}

// baseName strips the file extension from a slot name.
func baseName(slot string) string {
	if i := strings.LastIndex(slot, "."); i > 0 {
		return slot[:i]
	}
	return slot
}

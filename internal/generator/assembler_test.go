package generator_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pargen/internal/domain"
	"pargen/internal/generator"
	"pargen/internal/port"
)

// sequenceGenerator returns canned texts in call order and records every
// request it receives.
type sequenceGenerator struct {
	requests []port.GenerateRequest
	failAt   int // 1-based call index to fail at; 0 disables
}

func (g *sequenceGenerator) Generate(_ context.Context, req port.GenerateRequest) (string, error) {
	g.requests = append(g.requests, req)
	n := len(g.requests)
	if g.failAt != 0 && n == g.failAt {
		return "", fmt.Errorf("simulated generation failure")
	}
	return fmt.Sprintf("SECTION-%d", n), nil
}

func testInputs() generator.Inputs {
	texts := map[string]string{
		"Transcript.pdf":         "transcript text",
		"IntakeForm_Results.pdf": "intake text",
	}
	for _, slot := range domain.TestResultSlots {
		if _, ok := texts[slot]; !ok {
			texts[slot] = "results for " + slot
		}
	}
	return generator.BuildInputs(texts)
}

func TestAssembler_GeneratesAllGroupsInOrder(t *testing.T) {
	gen := &sequenceGenerator{}
	report, err := generator.NewAssembler(gen).Assemble(context.Background(), testInputs())

	require.NoError(t, err)
	require.Len(t, gen.requests, len(generator.SectionSpecs))
	require.Len(t, report.Sections, len(generator.SectionSpecs))

	for i, spec := range generator.SectionSpecs {
		assert.Equal(t, spec.System, gen.requests[i].System, "call %d system message", i)
		assert.Equal(t, spec.MaxTokens, gen.requests[i].MaxTokens, "call %d max tokens", i)
		assert.Equal(t, spec.ID, report.Sections[i].ID)
	}
}

func TestAssembler_BodyIsOrderedConcatenation(t *testing.T) {
	gen := &sequenceGenerator{}
	report, err := generator.NewAssembler(gen).Assemble(context.Background(), testInputs())

	require.NoError(t, err)
	var want []string
	for i := range generator.SectionSpecs {
		want = append(want, fmt.Sprintf("SECTION-%d", i+1))
	}
	assert.Equal(t, strings.Join(want, "\n\n"), report.Body)
	assert.Equal(t, generator.CoverText(), report.Cover)
	assert.Equal(t, generator.TOCText(), report.TOC)
}

func TestAssembler_LaterGroupsEmbedEarlierOutput(t *testing.T) {
	gen := &sequenceGenerator{}
	_, err := generator.NewAssembler(gen).Assemble(context.Background(), testInputs())
	require.NoError(t, err)

	// Group 12-14 is the seventh call and must carry all six prior texts.
	seventh := gen.requests[6].Prompt
	for i := 1; i <= 6; i++ {
		assert.Contains(t, seventh, fmt.Sprintf("SECTION-%d", i))
	}

	// The final group carries everything generated before it plus the input texts.
	last := gen.requests[len(gen.requests)-1].Prompt
	for i := 1; i < len(generator.SectionSpecs); i++ {
		assert.Contains(t, last, fmt.Sprintf("SECTION-%d", i))
	}
	assert.Contains(t, last, "transcript text")
	assert.Contains(t, last, "intake text")
}

func TestAssembler_EarlyGroupsUseInputTexts(t *testing.T) {
	gen := &sequenceGenerator{}
	_, err := generator.NewAssembler(gen).Assemble(context.Background(), testInputs())
	require.NoError(t, err)

	// Groups built from intake and transcript only.
	first := gen.requests[0].Prompt
	assert.Contains(t, first, "intake text")
	assert.Contains(t, first, "transcript text")

	// Group 5 carries the eight test-result texts.
	fifth := gen.requests[2].Prompt
	for _, slot := range domain.TestResultSlots {
		if slot == "IntakeForm_Results.pdf" {
			assert.Contains(t, fifth, "intake text")
			continue
		}
		assert.Contains(t, fifth, "results for "+slot)
	}
	assert.NotContains(t, fifth, "transcript text")
}

func TestAssembler_FailureAbortsRun(t *testing.T) {
	gen := &sequenceGenerator{failAt: 4}
	report, err := generator.NewAssembler(gen).Assemble(context.Background(), testInputs())

	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), generator.SectionSpecs[3].ID)
	assert.Len(t, gen.requests, 4)
}

func TestBuildInputs_OrdersAndStripsExtensions(t *testing.T) {
	texts := map[string]string{
		"Transcript.pdf":         "transcript text",
		"IntakeForm_Results.pdf": "intake text",
		"CATQ_Results.pdf":       "catq text",
	}
	in := generator.BuildInputs(texts)

	assert.Equal(t, "transcript text", in.Transcript)
	assert.Equal(t, "intake text", in.Intake)

	require.Len(t, in.TestResults, len(domain.TestResultSlots))
	assert.Equal(t, "IntakeForm_Results", in.TestResults[0].Name)
	assert.Equal(t, "CATQ_Results", in.TestResults[1].Name)
	assert.Equal(t, "catq text", in.TestResults[1].Text)

	require.Len(t, in.AllTexts, len(domain.RequiredInputSlots))
	assert.Equal(t, "Transcript", in.AllTexts[0].Name)
	// Missing slots contribute empty text, never an error.
	assert.Equal(t, "", in.AllTexts[len(in.AllTexts)-1].Text)
}

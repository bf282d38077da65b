package diagramanalyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	providertest "github.com/brain-battle/notes-server/llm/providers/test"
	"github.com/brain-battle/notes-server/notes"
)

func newAgent(fp *providertest.FakeProvider) *Agent {
	return New(fp, "test-model", zerolog.Nop())
}

func TestExecute_NoImagesShortCircuits(t *testing.T) {
	fp := providertest.NewFakeProvider()
	a := newAgent(fp)

	out := a.Execute(context.Background(), &notes.AgentInput{DocumentText: "text only"})

	require.True(t, out.Success)
	assert.Equal(t, 0, fp.CallCount())
	assert.Equal(t, 0, out.Stats.TokensUsed)

	ds, ok := out.Data.(*notes.DiagramSet)
	require.True(t, ok)
	assert.Equal(t, []notes.Diagram{}, ds.Diagrams)
}

func TestExecute_AnalyzesImages(t *testing.T) {
	fp := providertest.NewFakeProvider()
	fp.AddJSONResponse("extracted images",
		`{"diagrams":[{"page":4,"title":"Phase diagram","caption":"Water phase boundaries","source_type":"chart"}]}`, 55)
	a := newAgent(fp)

	input := &notes.AgentInput{
		DocumentText: "States of matter.",
		Images:       []notes.SourceImage{{Page: 4, Width: 800, Height: 600, Data: "aW1n"}},
	}
	out := a.Execute(context.Background(), input)

	require.True(t, out.Success)
	assert.Equal(t, 1, fp.CallCount())
	assert.Equal(t, 55, out.Stats.TokensUsed)

	ds := out.Data.(*notes.DiagramSet)
	require.Len(t, ds.Diagrams, 1)
	assert.Equal(t, 4, ds.Diagrams[0].Page)
	assert.Equal(t, "aW1n", ds.Diagrams[0].ImageData)
	assert.Equal(t, "chart", ds.Diagrams[0].SourceType)
}

func TestExecute_ProviderErrorFails(t *testing.T) {
	fp := providertest.NewFakeProvider()
	fp.AddError("", errors.New("service unavailable"))
	a := newAgent(fp)

	out := a.Execute(context.Background(), &notes.AgentInput{
		Images: []notes.SourceImage{{Page: 1, Data: "aW1n"}},
	})

	require.False(t, out.Success)
	assert.NotEmpty(t, out.Errors)
	assert.Nil(t, out.Data)
}

func TestMatchImages_PageMatchOutOfOrder(t *testing.T) {
	a := newAgent(providertest.NewFakeProvider())

	images := []notes.SourceImage{
		{Page: 2, Data: "first"},
		{Page: 7, Data: "second"},
	}
	diagrams := []notes.Diagram{
		{Page: 7, Title: "B"},
		{Page: 2, Title: "A"},
	}

	matched := a.matchImages(diagrams, images)

	require.Len(t, matched, 2)
	assert.Equal(t, "second", matched[0].ImageData)
	assert.Equal(t, "first", matched[1].ImageData)
}

func TestMatchImages_IndexFallbackSetsPage(t *testing.T) {
	a := newAgent(providertest.NewFakeProvider())

	images := []notes.SourceImage{
		{Page: 3, Data: "first"},
		{Page: 5, Data: "second"},
	}
	// Model misreported both pages: fall back to positional order.
	diagrams := []notes.Diagram{
		{Page: 99, Title: "A"},
		{Page: 0, Title: "B"},
	}

	matched := a.matchImages(diagrams, images)

	require.Len(t, matched, 2)
	assert.Equal(t, 3, matched[0].Page)
	assert.Equal(t, "first", matched[0].ImageData)
	assert.Equal(t, 5, matched[1].Page)
	assert.Equal(t, "second", matched[1].ImageData)

	// Page is always taken from a real image, never left at zero.
	for _, d := range matched {
		assert.NotZero(t, d.Page)
	}
}

func TestMatchImages_ExtraDiagramsAreSkipped(t *testing.T) {
	a := newAgent(providertest.NewFakeProvider())

	images := []notes.SourceImage{{Page: 1, Data: "only"}}
	diagrams := []notes.Diagram{
		{Page: 1, Title: "A"},
		{Page: 8, Title: "phantom"},
	}

	matched := a.matchImages(diagrams, images)

	require.Len(t, matched, 2)
	assert.Equal(t, "only", matched[0].ImageData)
	assert.Empty(t, matched[1].ImageData)
}

func TestMatchImages_DefaultsSourceType(t *testing.T) {
	a := newAgent(providertest.NewFakeProvider())

	matched := a.matchImages(
		[]notes.Diagram{{Page: 1}},
		[]notes.SourceImage{{Page: 1, Data: "x"}},
	)

	require.Len(t, matched, 1)
	assert.Equal(t, "image", matched[0].SourceType)
}

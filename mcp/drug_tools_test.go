package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Aki894/mcp-RxNav/rag"
	"github.com/Aki894/mcp-RxNav/rxnav"
	"github.com/Aki894/mcp-RxNav/service"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct{}

func (stubResolver) SearchDrugs(_ context.Context, name string, _ int) ([]rxnav.Concept, error) {
	return []rxnav.Concept{{RxCUI: "243670", Name: name + " 81 MG Oral Tablet", TTY: "SCD"}}, nil
}

func (stubResolver) GenericNames(_ context.Context, name string, _ int) ([]rxnav.Concept, error) {
	if name == "unknown" {
		return nil, rxnav.ErrDrugNotFound
	}
	return []rxnav.Concept{{RxCUI: "1191", Name: "aspirin", TTY: "IN"}}, nil
}

func (stubResolver) BrandNames(context.Context, string, int) ([]rxnav.Concept, error) {
	return []rxnav.Concept{{RxCUI: "215568", Name: "Bayer Aspirin", TTY: "BN"}}, nil
}

func (stubResolver) ATCClasses(_ context.Context, name string, _ int) ([]rxnav.DrugClass, error) {
	return []rxnav.DrugClass{{ClassID: "N02BA", ClassName: "Salicylic acid and derivatives", ClassType: "ATC1-4", DrugName: name}}, nil
}

func (stubResolver) Ingredients(context.Context, string, int) ([]rxnav.Concept, error) {
	return []rxnav.Concept{{RxCUI: "1191", Name: "aspirin", TTY: "IN"}}, nil
}

func connect(t *testing.T, withSummary bool) *sdk.ClientSession {
	t.Helper()
	ctx := context.Background()

	pipeline, err := rag.NewPipeline(rag.DefaultPipelineConfig(), nil)
	require.NoError(t, err)
	server := NewServer(service.NewDrugService(stubResolver{}, pipeline), "test", withSummary)

	serverTransport, clientTransport := sdk.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func decode[T any](t *testing.T, res *sdk.CallToolResult) T {
	t.Helper()
	var out T
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestDrugTools(t *testing.T) {
	cs := connect(t, true)
	ctx := context.Background()

	t.Run("ShouldListAllTools", func(t *testing.T) {
		res, err := cs.ListTools(ctx, nil)
		require.NoError(t, err)
		names := make([]string, 0, len(res.Tools))
		for _, tool := range res.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{
			ToolSearchDrugs, ToolGenericName, ToolBrandNames, ToolATCClasses, ToolIngredients, ToolDrugSummary,
		}, names)
	})

	t.Run("ShouldReturnBrandNames", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdk.CallToolParams{
			Name:      ToolBrandNames,
			Arguments: map[string]any{"name": "aspirin"},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
		out := decode[ConceptsOutput](t, res)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "Bayer Aspirin", out.Concepts[0].Name)
	})

	t.Run("ShouldReturnATCClasses", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdk.CallToolParams{
			Name:      ToolATCClasses,
			Arguments: map[string]any{"name": "aspirin", "limit": 5},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
		out := decode[ClassesOutput](t, res)
		require.Len(t, out.Classes, 1)
		assert.Equal(t, "N02BA", out.Classes[0].ClassID)
	})

	t.Run("ShouldReportNotFoundAsToolError", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdk.CallToolParams{
			Name:      ToolGenericName,
			Arguments: map[string]any{"name": "unknown"},
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		require.NotEmpty(t, res.Content)
		text, ok := res.Content[0].(*sdk.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, "NotFound")
	})

	t.Run("ShouldRejectOutOfRangeLimit", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdk.CallToolParams{
			Name:      ToolSearchDrugs,
			Arguments: map[string]any{"name": "aspirin", "limit": 500},
		})
		require.NoError(t, err)
		assert.True(t, res.IsError)
	})

	t.Run("ShouldSummarizeWithCitations", func(t *testing.T) {
		res, err := cs.CallTool(ctx, &sdk.CallToolParams{
			Name:      ToolDrugSummary,
			Arguments: map[string]any{"drug": "aspirin", "query": "ATC classification", "top_k": 2},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)
		out := decode[SummaryOutput](t, res)
		require.Len(t, out.TopChunks, 2)
		assert.Equal(t, service.LabelATC, out.TopChunks[0].Label)
		assert.Len(t, out.Citations, 2)
		assert.Equal(t, out.TopChunks[0].Source, out.Citations[0].SourceID)
		assert.Equal(t, rag.DefaultSource, out.Source)
		assert.Contains(t, out.Summary, "N02BA")
	})
}

func TestSummaryToolCanBeDisabled(t *testing.T) {
	cs := connect(t, false)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Tools, 5)
	for _, tool := range res.Tools {
		assert.NotEqual(t, ToolDrugSummary, tool.Name)
	}
	assert.Len(t, Catalog(false), 5)
}

func TestCatalog(t *testing.T) {
	tools := Catalog(true)
	require.Len(t, tools, 6)
	assert.Equal(t, ToolSearchDrugs, tools[0].Name)
	assert.Equal(t, ToolDrugSummary, tools[5].Name)
	for _, tool := range tools {
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
}

func TestToSummaryOutput(t *testing.T) {
	out := ToSummaryOutput(&rag.Result{Source: "RxNav", Summary: rag.NoInformationFound})
	assert.NotNil(t, out.TopChunks)
	assert.NotNil(t, out.Citations)
	assert.Equal(t, rag.NoInformationFound, out.Summary)
}

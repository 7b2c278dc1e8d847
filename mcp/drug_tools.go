package mcp

import (
	"context"
	"fmt"

	"github.com/Aki894/mcp-RxNav/metrics"
	"github.com/Aki894/mcp-RxNav/model"
	"github.com/Aki894/mcp-RxNav/rag"
	"github.com/Aki894/mcp-RxNav/rxnav"
	"github.com/Aki894/mcp-RxNav/service"
	"github.com/SaiNageswarS/go-api-boot/logger"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
	"google.golang.org/grpc/status"
)

// Tool names.
const (
	ToolSearchDrugs = "search_drugs"
	ToolGenericName = "get_generic_name"
	ToolBrandNames  = "get_brand_names"
	ToolATCClasses  = "get_atc_classification"
	ToolIngredients = "get_ingredients"
	ToolDrugSummary = "drug_rag_summary"
)

type DrugArgs struct {
	Name  string `json:"name" jsonschema:"drug name or RxCUI, for example aspirin or 1191"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, 1 to 100, default 10"`
}

type ConceptsOutput struct {
	Drug     string          `json:"drug"`
	Count    int             `json:"count"`
	Concepts []rxnav.Concept `json:"concepts"`
}

type ClassesOutput struct {
	Drug    string            `json:"drug"`
	Count   int               `json:"count"`
	Classes []rxnav.DrugClass `json:"classes"`
}

type SummaryArgs struct {
	Drug      string `json:"drug" jsonschema:"drug name or RxCUI to summarize"`
	Query     string `json:"query,omitempty" jsonschema:"question used to rank the retrieved passages, defaults to the drug name"`
	Condition string `json:"condition,omitempty" jsonschema:"optional condition or indication for context"`
	TopK      int    `json:"top_k,omitempty" jsonschema:"number of passages to keep, 1 to 10, default 5"`
	Limit     int    `json:"limit,omitempty" jsonschema:"results fetched per lookup, 1 to 100, default 10"`
}

// SummaryOutput is shared with the REST surface.
type SummaryOutput = model.SummaryResponse

// DrugTools binds the drug service to MCP tool handlers.
type DrugTools struct {
	svc *service.DrugService
}

func NewDrugTools(svc *service.DrugService) *DrugTools {
	return &DrugTools{svc: svc}
}

var descriptions = map[string]string{
	ToolSearchDrugs: "Search RxNorm drug products by name. Returns clinical and branded drug concepts with their RxCUI and term type.",
	ToolGenericName: "Map a brand or product name to its generic ingredient name(s).",
	ToolBrandNames:  "List brand names marketed for a generic drug.",
	ToolATCClasses:  "Get the Anatomical Therapeutic Chemical (ATC) classification of a drug.",
	ToolIngredients: "List the active ingredients (single, multiple and precise ingredients) of a drug.",
	ToolDrugSummary: "Aggregate search, generic, brand, ATC and ingredient lookups for one drug, " +
		"rank the passages against a query and return a bounded summary with citations.",
}

// Catalog lists the tools a server registers, in registration order.
func Catalog(withSummary bool) []model.ToolInfo {
	names := []string{ToolSearchDrugs, ToolGenericName, ToolBrandNames, ToolATCClasses, ToolIngredients}
	if withSummary {
		names = append(names, ToolDrugSummary)
	}
	out := make([]model.ToolInfo, 0, len(names))
	for _, name := range names {
		out = append(out, model.ToolInfo{Name: name, Description: descriptions[name]})
	}
	return out
}

func tool(name string) *sdk.Tool {
	return &sdk.Tool{Name: name, Description: descriptions[name]}
}

// Register adds the lookup tools to server, and the summary tool when enabled.
func (t *DrugTools) Register(server *sdk.Server, withSummary bool) {
	sdk.AddTool(server, tool(ToolSearchDrugs), t.searchDrugs)
	sdk.AddTool(server, tool(ToolGenericName), t.genericNames)
	sdk.AddTool(server, tool(ToolBrandNames), t.brandNames)
	sdk.AddTool(server, tool(ToolATCClasses), t.atcClasses)
	sdk.AddTool(server, tool(ToolIngredients), t.ingredients)
	if withSummary {
		sdk.AddTool(server, tool(ToolDrugSummary), t.summary)
	}
}

func (t *DrugTools) searchDrugs(ctx context.Context, _ *sdk.CallToolRequest, in DrugArgs) (*sdk.CallToolResult, ConceptsOutput, error) {
	concepts, err := t.svc.SearchDrugs(ctx, service.LookupRequest{Name: in.Name, Limit: in.Limit})
	return finish(ToolSearchDrugs, conceptsOutput(in.Name, concepts), err)
}

func (t *DrugTools) genericNames(ctx context.Context, _ *sdk.CallToolRequest, in DrugArgs) (*sdk.CallToolResult, ConceptsOutput, error) {
	concepts, err := t.svc.GenericNames(ctx, service.LookupRequest{Name: in.Name, Limit: in.Limit})
	return finish(ToolGenericName, conceptsOutput(in.Name, concepts), err)
}

func (t *DrugTools) brandNames(ctx context.Context, _ *sdk.CallToolRequest, in DrugArgs) (*sdk.CallToolResult, ConceptsOutput, error) {
	concepts, err := t.svc.BrandNames(ctx, service.LookupRequest{Name: in.Name, Limit: in.Limit})
	return finish(ToolBrandNames, conceptsOutput(in.Name, concepts), err)
}

func (t *DrugTools) atcClasses(ctx context.Context, _ *sdk.CallToolRequest, in DrugArgs) (*sdk.CallToolResult, ClassesOutput, error) {
	classes, err := t.svc.ATCClasses(ctx, service.LookupRequest{Name: in.Name, Limit: in.Limit})
	if classes == nil {
		classes = []rxnav.DrugClass{}
	}
	return finish(ToolATCClasses, ClassesOutput{Drug: in.Name, Count: len(classes), Classes: classes}, err)
}

func (t *DrugTools) ingredients(ctx context.Context, _ *sdk.CallToolRequest, in DrugArgs) (*sdk.CallToolResult, ConceptsOutput, error) {
	concepts, err := t.svc.Ingredients(ctx, service.LookupRequest{Name: in.Name, Limit: in.Limit})
	return finish(ToolIngredients, conceptsOutput(in.Name, concepts), err)
}

func (t *DrugTools) summary(ctx context.Context, _ *sdk.CallToolRequest, in SummaryArgs) (*sdk.CallToolResult, SummaryOutput, error) {
	res, err := t.svc.Summarize(ctx, service.SummaryRequest{
		Drug:      in.Drug,
		Query:     in.Query,
		Condition: in.Condition,
		TopK:      in.TopK,
		Limit:     in.Limit,
	})
	if err != nil {
		return finish(ToolDrugSummary, SummaryOutput{}, err)
	}
	return finish(ToolDrugSummary, ToSummaryOutput(res), nil)
}

// ToSummaryOutput flattens a pipeline result for transport.
func ToSummaryOutput(res *rag.Result) SummaryOutput {
	return model.NewSummaryResponse(res)
}

func conceptsOutput(drug string, concepts []rxnav.Concept) ConceptsOutput {
	if concepts == nil {
		concepts = []rxnav.Concept{}
	}
	return ConceptsOutput{Drug: drug, Count: len(concepts), Concepts: concepts}
}

// finish records the call and turns a gRPC status into a readable tool error.
func finish[T any](tool string, out T, err error) (*sdk.CallToolResult, T, error) {
	if err != nil {
		metrics.ToolCalls.WithLabelValues(tool, metrics.Error).Inc()
		st := status.Convert(err)
		logger.Error("Tool call failed", zap.String("tool", tool), zap.String("code", st.Code().String()), zap.Error(err))
		var zero T
		return nil, zero, fmt.Errorf("%s: %s", st.Code(), st.Message())
	}
	metrics.ToolCalls.WithLabelValues(tool, metrics.OK).Inc()
	return nil, out, nil
}

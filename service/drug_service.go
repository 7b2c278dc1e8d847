package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Aki894/mcp-RxNav/metrics"
	"github.com/Aki894/mcp-RxNav/rag"
	"github.com/Aki894/mcp-RxNav/rxnav"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Labels of the blocks fed to the summary pipeline.
const (
	LabelSearch      = "search"
	LabelGeneric     = "generic"
	LabelBrand       = "brand"
	LabelATC         = "atc"
	LabelIngredients = "ingredients"
)

// SummaryLabels is the fixed order in which labeled blocks are handed to the pipeline.
var SummaryLabels = []string{LabelSearch, LabelGeneric, LabelBrand, LabelATC, LabelIngredients}

const (
	DefaultLimit = 10
	DefaultTopK  = 5
)

// LookupRequest is the argument of every single-source lookup.
type LookupRequest struct {
	Name  string `validate:"required,max=200"`
	Limit int    `validate:"min=1,max=100"`
}

// SummaryRequest is the argument of Summarize.
type SummaryRequest struct {
	Drug      string `validate:"required,max=200"`
	Query     string `validate:"max=500"`
	Condition string `validate:"max=200"`
	TopK      int    `validate:"min=1,max=10"`
	Limit     int    `validate:"min=1,max=100"`
}

// DrugService is the tool-facing facade over the terminology resolver and
// the summary pipeline.
type DrugService struct {
	resolver rxnav.Resolver
	pipeline *rag.Pipeline
	validate *validator.Validate
}

func NewDrugService(resolver rxnav.Resolver, pipeline *rag.Pipeline) *DrugService {
	return &DrugService{
		resolver: resolver,
		pipeline: pipeline,
		validate: validator.New(),
	}
}

func (s *DrugService) SearchDrugs(ctx context.Context, req LookupRequest) ([]rxnav.Concept, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	concepts, err := s.resolver.SearchDrugs(ctx, req.Name, req.Limit)
	return concepts, lookupStatus("search drugs", req.Name, err)
}

func (s *DrugService) GenericNames(ctx context.Context, req LookupRequest) ([]rxnav.Concept, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	concepts, err := s.resolver.GenericNames(ctx, req.Name, req.Limit)
	return concepts, lookupStatus("generic names", req.Name, err)
}

func (s *DrugService) BrandNames(ctx context.Context, req LookupRequest) ([]rxnav.Concept, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	concepts, err := s.resolver.BrandNames(ctx, req.Name, req.Limit)
	return concepts, lookupStatus("brand names", req.Name, err)
}

func (s *DrugService) ATCClasses(ctx context.Context, req LookupRequest) ([]rxnav.DrugClass, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	classes, err := s.resolver.ATCClasses(ctx, req.Name, req.Limit)
	return classes, lookupStatus("atc classes", req.Name, err)
}

func (s *DrugService) Ingredients(ctx context.Context, req LookupRequest) ([]rxnav.Concept, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}
	concepts, err := s.resolver.Ingredients(ctx, req.Name, req.Limit)
	return concepts, lookupStatus("ingredients", req.Name, err)
}

// Summarize gathers every lookup for one drug in parallel, renders them to
// labeled text and runs the summary pipeline. A failing lookup is logged and
// left out; the summary is built from whatever arrived.
func (s *DrugService) Summarize(ctx context.Context, req SummaryRequest) (*rag.Result, error) {
	if err := s.check(&req); err != nil {
		return nil, err
	}

	texts := s.collect(ctx, req.Drug, req.Limit)

	query := req.Query
	if strings.TrimSpace(query) == "" {
		query = req.Drug
	}

	result, err := s.pipeline.Run(rag.PipelineInput{
		Texts:     texts,
		Query:     query,
		Drug:      req.Drug,
		Condition: req.Condition,
		TopK:      req.TopK,
	})
	if err != nil {
		if errors.Is(err, rag.ErrConfiguration) {
			return nil, status.Errorf(codes.InvalidArgument, "summary: %v", err)
		}
		logger.Error("Summary pipeline failed", zap.String("drug", req.Drug), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "summary: %v", err)
	}

	metrics.PipelineChunks.Observe(float64(len(result.TopChunks)))
	logger.Info("Built drug summary",
		zap.String("drug", req.Drug),
		zap.Int("sources", len(texts)),
		zap.Int("topChunks", len(result.TopChunks)))
	return result, nil
}

func (s *DrugService) collect(ctx context.Context, drug string, limit int) []rag.LabeledText {
	tasks := map[string]<-chan async.Result[string]{
		LabelSearch: async.Go(func() (string, error) {
			c, err := s.resolver.SearchDrugs(ctx, drug, limit)
			return rxnav.RenderConcepts("Drug search results for "+drug, c), err
		}),
		LabelGeneric: async.Go(func() (string, error) {
			c, err := s.resolver.GenericNames(ctx, drug, limit)
			return rxnav.RenderConcepts("Generic names for "+drug, c), err
		}),
		LabelBrand: async.Go(func() (string, error) {
			c, err := s.resolver.BrandNames(ctx, drug, limit)
			return rxnav.RenderConcepts("Brand names for "+drug, c), err
		}),
		LabelATC: async.Go(func() (string, error) {
			c, err := s.resolver.ATCClasses(ctx, drug, limit)
			return rxnav.RenderClasses("ATC classification for "+drug, c), err
		}),
		LabelIngredients: async.Go(func() (string, error) {
			c, err := s.resolver.Ingredients(ctx, drug, limit)
			return rxnav.RenderConcepts("Ingredients of "+drug, c), err
		}),
	}

	texts := make([]rag.LabeledText, 0, len(SummaryLabels))
	for _, label := range SummaryLabels {
		text, err := async.Await(tasks[label])
		if err != nil {
			logger.Error("Lookup failed, leaving it out of the summary",
				zap.String("label", label), zap.String("drug", drug), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		texts = append(texts, rag.LabeledText{Label: label, Text: text})
	}
	return texts
}

func (s *DrugService) check(req any) error {
	switch r := req.(type) {
	case *LookupRequest:
		r.Name = strings.TrimSpace(r.Name)
		if r.Limit == 0 {
			r.Limit = DefaultLimit
		}
	case *SummaryRequest:
		r.Drug = strings.TrimSpace(r.Drug)
		if r.TopK == 0 {
			r.TopK = DefaultTopK
		}
		if r.Limit == 0 {
			r.Limit = DefaultLimit
		}
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			}
			return status.Error(codes.InvalidArgument, strings.Join(msgs, "; "))
		}
		return status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	return nil
}

func lookupStatus(op, name string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, rxnav.ErrDrugNotFound):
		return status.Errorf(codes.NotFound, "%s: no RxNorm concept matches %q", op, name)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s: %v", op, err)
	default:
		logger.Error("RxNav lookup failed", zap.String("op", op), zap.String("name", name), zap.Error(err))
		return status.Errorf(codes.Unavailable, "%s: %v", op, err)
	}
}

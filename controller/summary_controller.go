package controller

import (
	"encoding/json"
	"net/http"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/middleware"
	"github.com/Aki894/mcp-RxNav/model"
	"github.com/Aki894/mcp-RxNav/service"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/server"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxSummaryBody = 1 << 20

// SummaryController serves the RAG summary to plain HTTP clients.
type SummaryController struct {
	svc *service.DrugService
	cfg *appconfig.AppConfig
}

func ProvideSummaryController(svc *service.DrugService, cfg *appconfig.AppConfig) *SummaryController {
	return &SummaryController{svc: svc, cfg: cfg}
}

func (c *SummaryController) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if !c.cfg.EnableRagSummary {
		writeError(w, r, status.Error(codes.Unimplemented, "rag summary is disabled"))
		return
	}

	var req model.SummaryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSummaryBody)).Decode(&req); err != nil {
		logger.Error("Failed to decode request", zap.Error(err))
		writeError(w, r, status.Error(codes.InvalidArgument, "invalid request payload"))
		return
	}

	res, err := c.svc.Summarize(r.Context(), service.SummaryRequest{
		Drug:      req.Drug,
		Query:     req.Query,
		Condition: req.Condition,
		TopK:      req.TopK,
		Limit:     req.Limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NewSummaryResponse(res))
	logger.Info("Summary served",
		zap.String("drug", req.Drug),
		zap.String("requestId", middleware.RequestIDFrom(r.Context())))
}

func (c *SummaryController) Routes() []server.Route {
	return []server.Route{
		{
			Pattern: "/rag/summary",
			Method:  http.MethodPost,
			Handler: middleware.Chain(c.HandleSummary, middleware.RequestID, middleware.APIKeyAuth(c.cfg.ApiKey)),
		},
	}
}

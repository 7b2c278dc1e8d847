package controller

import (
	"net/http"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/mcp"
	"github.com/Aki894/mcp-RxNav/middleware"
	"github.com/Aki894/mcp-RxNav/model"
	"github.com/SaiNageswarS/go-api-boot/server"
)

type MetadataController struct {
	cfg *appconfig.AppConfig
}

func ProvideMetadataController(cfg *appconfig.AppConfig) *MetadataController {
	return &MetadataController{cfg: cfg}
}

type toolsResponse struct {
	Server  string           `json:"server"`
	Version string           `json:"version"`
	Source  string           `json:"source"`
	Tools   []model.ToolInfo `json:"tools"`
}

func (mc *MetadataController) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toolsResponse{
		Server:  mcp.ServerName,
		Version: mc.cfg.Version,
		Source:  mc.cfg.SourceName,
		Tools:   mcp.Catalog(mc.cfg.EnableRagSummary),
	})
}

func (mc *MetadataController) Routes() []server.Route {
	return []server.Route{
		{
			Pattern: "/metadata/tools",
			Method:  http.MethodGet,
			Handler: middleware.Chain(mc.ListTools, middleware.RequestID, middleware.APIKeyAuth(mc.cfg.ApiKey)),
		},
	}
}

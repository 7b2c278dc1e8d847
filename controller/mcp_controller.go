package controller

import (
	"net/http"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/mcp"
	"github.com/Aki894/mcp-RxNav/middleware"
	"github.com/SaiNageswarS/go-api-boot/server"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPController mounts the streamable HTTP transport at /mcp.
type MCPController struct {
	handler http.Handler
	cfg     *appconfig.AppConfig
}

func ProvideMCPController(srv *sdk.Server, cfg *appconfig.AppConfig) *MCPController {
	return &MCPController{handler: mcp.HTTPHandler(srv), cfg: cfg}
}

func (c *MCPController) Handle(w http.ResponseWriter, r *http.Request) {
	c.handler.ServeHTTP(w, r)
}

func (c *MCPController) Routes() []server.Route {
	h := middleware.Chain(c.Handle, middleware.RequestID, middleware.APIKeyAuth(c.cfg.ApiKey))
	return []server.Route{
		{Pattern: "/mcp", Method: http.MethodPost, Handler: h},
		{Pattern: "/mcp", Method: http.MethodGet, Handler: h},
		{Pattern: "/mcp", Method: http.MethodDelete, Handler: h},
	}
}

package mcp

import (
	"context"
	"net/http"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/service"
	"github.com/SaiNageswarS/go-api-boot/logger"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const ServerName = "rxnav-mcp"

// NewServer builds an MCP server exposing the drug tools.
func NewServer(svc *service.DrugService, version string, withSummary bool) *sdk.Server {
	server := sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: version}, nil)
	NewDrugTools(svc).Register(server, withSummary)
	return server
}

func ProvideServer(svc *service.DrugService, cfg *appconfig.AppConfig) *sdk.Server {
	return NewServer(svc, cfg.Version, cfg.EnableRagSummary)
}

// ServeStdio serves the tools over stdin/stdout until ctx is done or the
// client disconnects.
func ServeStdio(ctx context.Context, server *sdk.Server) error {
	logger.Info("Serving MCP over stdio", zap.String("server", ServerName))
	return server.Run(ctx, &sdk.StdioTransport{})
}

// HTTPHandler serves the tools over the streamable HTTP transport.
func HTTPHandler(server *sdk.Server) http.Handler {
	return sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, nil)
}

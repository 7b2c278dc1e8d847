package controller

import (
	"html/template"
	"net/http"
	"time"

	"github.com/Aki894/mcp-RxNav/appconfig"
	"github.com/Aki894/mcp-RxNav/templates"
	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/server"
	"go.uber.org/zap"
)

var disclaimerTmpl = template.Must(template.ParseFS(templates.FS, "disclaimer.html"))

type DisclaimerController struct {
	cfg *appconfig.AppConfig
}

func ProvideDisclaimerController(cfg *appconfig.AppConfig) *DisclaimerController {
	return &DisclaimerController{cfg: cfg}
}

func (dc *DisclaimerController) HandleDisclaimer(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Source      string
		LastUpdated string
	}{
		Source:      dc.cfg.SourceName,
		LastUpdated: time.Now().Format("January 2006"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := disclaimerTmpl.Execute(w, data); err != nil {
		logger.Error("Failed to render disclaimer", zap.Error(err))
	}
}

func (dc *DisclaimerController) Routes() []server.Route {
	return []server.Route{
		{
			Pattern: "/disclaimer",
			Method:  http.MethodGet,
			Handler: dc.HandleDisclaimer,
		},
	}
}

package controller

import (
	"net/http"

	"github.com/SaiNageswarS/go-api-boot/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsController struct {
	handler http.Handler
}

func ProvideMetricsController() *MetricsController {
	return &MetricsController{handler: promhttp.Handler()}
}

func (c *MetricsController) Scrape(w http.ResponseWriter, r *http.Request) {
	c.handler.ServeHTTP(w, r)
}

func (c *MetricsController) Routes() []server.Route {
	return []server.Route{
		{
			Pattern: "/metrics",
			Method:  http.MethodGet,
			Handler: c.Scrape,
		},
	}
}

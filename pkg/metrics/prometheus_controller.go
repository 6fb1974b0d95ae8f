package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emabi2002/npiams-sub001/pkg/application"
)

const defaultScrapePath = "/debug/prometheus"

// PrometheusController exposes the default registry as a scrape
// endpoint. Gather errors are reported in-band rather than failing the
// whole scrape, so one bad collector does not blind the rest.
type PrometheusController struct {
	path    string
	handler http.Handler
}

func NewPrometheusController(path string) application.Controller {
	if path == "" {
		path = defaultScrapePath
	}
	return &PrometheusController{
		path: path,
		handler: promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			ErrorHandling: promhttp.ContinueOnError,
		}),
	}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	r.Handle(c.path, c.handler).Methods(http.MethodGet)
}

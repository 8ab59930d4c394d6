// Package api exposes the todo service over HTTP as JSON.
//
//	POST   {base}       create a todo           201, 400, 415
//	GET    {base}       list todos              200
//	GET    {base}{id}   get a todo              200, 404
//	DELETE {base}{id}   delete a todo           204, 404
//	GET    /healthz     liveness                200
//	GET    /readyz      store reachability      200, 503
//	GET    /metrics     Prometheus metrics      200
//
// Error responses carry no body. A base path other than "/" also answers
// POST and GET on the collection without its trailing slash.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/mmynk/todo/internal/metrics"
	"github.com/mmynk/todo/internal/middleware"
	"github.com/mmynk/todo/internal/models"
)

// TodoService is the set of use cases the API calls.
type TodoService interface {
	Create(ctx context.Context, todo models.Todo) (models.Todo, error)
	List(ctx context.Context) ([]models.Todo, error)
	Get(ctx context.Context, id int64) (models.Todo, error)
	Delete(ctx context.Context, id int64) error
	Ready(ctx context.Context) error
}

// maxBodyBytes bounds the size of a request body.
const maxBodyBytes = 1 << 20

// NewMux registers the routes. basePath must start and end with a slash.
func NewMux(svc TodoService, m *metrics.Metrics, basePath string) *http.ServeMux {
	h := &todoHandler{svc: svc, basePath: basePath}

	mux := http.NewServeMux()
	mux.HandleFunc("POST "+basePath+"{$}", h.create)
	mux.HandleFunc("GET "+basePath+"{$}", h.list)
	if collection := strings.TrimSuffix(basePath, "/"); collection != "" {
		// Without these the mux redirects with a 301 and clients replay
		// the POST as a GET.
		mux.HandleFunc("POST "+collection, h.create)
		mux.HandleFunc("GET "+collection, h.list)
	}
	mux.HandleFunc("GET "+basePath+"{id}", h.get)
	mux.HandleFunc("DELETE "+basePath+"{id}", h.delete)

	mux.HandleFunc("GET /healthz", healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.Handle("GET /metrics", m.Handler())

	return mux
}

// NewHandler returns the routes wrapped in the standard middleware stack.
func NewHandler(svc TodoService, m *metrics.Metrics, basePath string) http.Handler {
	return middleware.Chain(NewMux(svc, m, basePath),
		middleware.RequestID,
		middleware.Logging,
		middleware.Recovery,
		middleware.CORS,
		middleware.Metrics(m),
	)
}

package api

import (
	"net/http"

	"github.com/agrosense/fieldhub/api/resources"
	"github.com/agrosense/fieldhub/internal/fieldservice"
	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/agrosense/fieldhub/internal/monitoring"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type Router struct {
	router    *mux.Router
	cors      func(http.Handler) http.Handler
	resources *resources.Resources
}

func NewRouter(svc *fieldservice.FieldService, eventHub *hub.Hub) *Router {
	r := &Router{
		router: mux.NewRouter(),
		cors: handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		),
		resources: resources.NewResources(svc, eventHub),
	}

	r.setupRoutes()
	return r
}

func (r *Router) setupRoutes() {
	// REST surface
	api := r.router.PathPrefix("/api").Subrouter()

	// Sensors
	sensors := api.PathPrefix("/sensors").Subrouter()
	sensors.HandleFunc("/latest", r.resources.Sensors.LatestReadings).Methods(http.MethodGet)
	sensors.HandleFunc("/{probeId}/history", r.resources.Sensors.ProbeHistory).Methods(http.MethodGet)

	// Commands
	commands := api.PathPrefix("/commands").Subrouter()
	commands.HandleFunc("", r.resources.Commands.SubmitCommand).Methods(http.MethodPost)
	commands.HandleFunc("/history", r.resources.Commands.CommandHistory).Methods(http.MethodGet)
	commands.HandleFunc("/{id}", r.resources.Commands.GetCommand).Methods(http.MethodGet)

	// Rovers and aggregate status
	api.HandleFunc("/rovers", r.resources.Status.ListRovers).Methods(http.MethodGet)
	api.HandleFunc("/status", r.resources.Status.SystemStatus).Methods(http.MethodGet)

	// Public routes
	r.router.HandleFunc("/health", r.resources.Status.Health).Methods(http.MethodGet)
	r.router.Handle("/metrics", monitoring.Handler()).Methods(http.MethodGet)

	// Live event channel
	r.router.HandleFunc("/ws", r.resources.Events.Serve).Methods(http.MethodGet)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.cors(r.router).ServeHTTP(w, req)
}

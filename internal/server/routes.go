package server

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/jackzampolin/labrelay/internal/server/endpoints"
)

// routes builds the handler chain: CORS -> request ID -> services -> mux.
func (s *Server) routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{endpoints.RequestIDHeader},
	})

	return c.Handler(s.withRequestID(s.withServices(mux)))
}

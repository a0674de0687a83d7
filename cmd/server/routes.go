package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func (app *application) routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", app.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ws", app.handleWebSocket)

	c := cors.New(cors.Options{
		AllowedOrigins:   app.allowedOrigins(),
		AllowCredentials: true,
	})

	return app.logRequests(c.Handler(router))
}

func (app *application) allowedOrigins() []string {
	if app.Config.FrontendOrigin == "" {
		return []string{"*"}
	}
	return []string{app.Config.FrontendOrigin}
}

package handler

import (
	"net/http"

	"vinemarket-backend/bootstrap"
	"vinemarket-backend/internal/interfaces/router"
)

var httpHandler http.Handler

func init() {
	app, _, err := bootstrap.New()
	if err != nil {
		panic("app create: " + err.Error())
	}
	httpHandler = router.Handler(app)
}

// Handler is the serverless entry point. All requests are rewritten here.
// The listing subscription lives as long as the warm instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	httpHandler.ServeHTTP(w, r)
}

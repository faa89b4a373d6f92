package handler

import (
	"net/http"

	"lending/core"
	"lending/handler/auth"
	"lending/handler/render"
	"lending/handler/rest"

	"github.com/go-chi/chi"
	"github.com/twitchtv/twirp"
)

// Server server
type Server struct {
	cfg     *core.Config
	ledger  core.Ledger
	session core.Session
}

// New new server function
func New(
	cfg *core.Config,
	ledger core.Ledger,
	session core.Session,
) Server {
	return Server{
		cfg:     cfg,
		ledger:  ledger,
		session: session,
	}
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	r := chi.NewRouter()
	r.Use(auth.HandleAuthentication(s.session, s.cfg.App.EngineID))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Error(w, twirp.NotFoundError("not found"))
	})

	r.Mount("/", rest.Handle(s.ledger, s.cfg))

	return r
}

package auth

import (
	"net/http"
	"strings"

	"lending/core"
	"lending/handler/render"
	"lending/handler/request"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/twitchtv/twirp"
)

// HandleAuthentication attach the bearer token's user to the request context.
// Tokens issued to a reserved account (the loan engine) are refused.
func HandleAuthentication(session core.Session, reserved ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := session.Login(ctx, accessToken)
			if err != nil {
				next.ServeHTTP(w, r)
				log.WithError(err).Debugln("parse access token error:", err)
				return
			}

			if govalidator.IsIn(user.ID, reserved...) {
				log.Warnln("refused token of reserved account", user.ID)
				render.Error(w, twirp.NewError(twirp.PermissionDenied, "reserved account"))
				return
			}

			ctx = logger.WithContext(ctx, log.WithField("user", user.ID))
			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithUser(user)))
		}

		return http.HandlerFunc(fn)
	}
}

// HandleAuthenticated reject anonymous requests
func HandleAuthenticated(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if request.UserFrom(r.Context()) == nil {
			render.Error(w, twirp.NewError(twirp.Unauthenticated, "authentication required"))
			return
		}

		next.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	return strings.TrimPrefix(s, "Bearer ")
}

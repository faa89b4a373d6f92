package render

import (
	"encoding/json"
	"net/http"

	"lending/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/twitchtv/twirp"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Error write err as {code, msg} with the matching http status
func Error(w http.ResponseWriter, err error) {
	twerr := codes.From(err)
	status := twirp.ServerHTTPStatusFromErrorCode(twerr.Code())

	code := cast.ToInt(twerr.Meta(codes.CustomCodeKey))
	if code == 0 {
		code = codes.Get(twerr.Code())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(H{"code": code, "msg": twerr.Msg()}); err != nil {
		logrus.WithError(err).Errorln("render error")
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, codes.With(twirp.InvalidArgumentError("request", err.Error()), codes.InvalidArguments))
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.NotFoundError(err.Error()))
}

package param

import (
	"encoding/json"
	"net/http"
	"reflect"

	"lending/handler/codes"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	"github.com/twitchtv/twirp"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("json")
	decoder.RegisterConverter(decimal.Decimal{}, func(s string) reflect.Value {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return reflect.Value{}
		}

		return reflect.ValueOf(d)
	})
}

// Binding decode the query (GET) or the json body into v and validate it
// with its valid tags
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet {
		if err := decoder.Decode(v, r.URL.Query()); err != nil {
			return invalid("query", err)
		}
	} else if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalid("body", err)
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return invalid("params", err)
	}

	return nil
}

func invalid(argument string, err error) error {
	return codes.With(twirp.InvalidArgumentError(argument, err.Error()), codes.InvalidArguments)
}

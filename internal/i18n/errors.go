package i18n

import (
	"errors"
	"strings"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/services"
)

// Describe turns an operation error into the banner shown to the user
func (l *Localizer) Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		verr    *domain.ValidationError
		partial *services.PartialFailureError
		reqErr  *api.RequestError
		netErr  *api.NetworkError
		decErr  *api.DecodeError
	)
	switch {
	case errors.As(err, &verr):
		fields := make([]string, 0, len(verr.Fields))
		for _, name := range verr.FieldNames() {
			fields = append(fields, name+" "+verr.Fields[name])
		}
		return l.T(MsgErrValidation, strings.Join(fields, "; "))
	case errors.As(err, &partial):
		return l.T(MsgErrPartial, partial.ItemID, partial.Reference)
	case errors.Is(err, api.ErrUnauthorized):
		return l.T(MsgErrAuth)
	case errors.Is(err, api.ErrNotFound):
		return l.T(MsgErrNotFound)
	case errors.As(err, &reqErr):
		if reqErr.Message != "" {
			return l.T(MsgErrRequest, reqErr.Status, reqErr.Message)
		}
		return l.T(MsgErrRequestRaw, reqErr.Status)
	case errors.As(err, &netErr):
		return l.T(MsgErrNetwork)
	case errors.As(err, &decErr):
		return l.T(MsgErrDecode)
	default:
		return l.T(MsgErrGeneric, err.Error())
	}
}

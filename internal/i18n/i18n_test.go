package i18n_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/ammerola/stockroom/internal/adapters/api"
	"github.com/ammerola/stockroom/internal/core/domain"
	"github.com/ammerola/stockroom/internal/core/services"
	"github.com/ammerola/stockroom/internal/i18n"
)

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"en", "es", "id"}, i18n.Languages())
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		prefs []string
		want  language.Tag
	}{
		{"empty defaults to english", nil, language.English},
		{"exact", []string{"es"}, language.Spanish},
		{"posix locale", []string{"id_ID.UTF-8"}, language.Indonesian},
		{"regional variant", []string{"es-MX"}, language.Spanish},
		{"unsupported falls through", []string{"fr", "id"}, language.Indonesian},
		{"unsupported only", []string{"fr"}, language.English},
		{"C locale ignored", []string{"C", "es"}, language.Spanish},
		{"garbage ignored", []string{"!!", "es"}, language.Spanish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, i18n.Match(tt.prefs...))
		})
	}
}

func TestLocalizer_T(t *testing.T) {
	en := i18n.New(language.English)
	es := i18n.New(language.MustParse("es-MX"))
	id := i18n.New(language.Indonesian)

	assert.Equal(t, language.Spanish, es.Tag())

	assert.Equal(t, "Name", en.T(i18n.MsgName))
	assert.Equal(t, "Nombre", es.T(i18n.MsgName))
	assert.Equal(t, "Nama", id.T(i18n.MsgName))

	assert.Equal(t, "Showing 3 of 10 records", en.T(i18n.MsgShowing, 3, 10))
	assert.Equal(t, "Mostrando 3 de 10 registros", es.T(i18n.MsgShowing, 3, 10))
}

func TestLocalizer_UnsupportedFallsBackToEnglish(t *testing.T) {
	l := i18n.New(language.French)
	assert.Equal(t, language.English, l.Tag())
	assert.Equal(t, "Quantity", l.T(i18n.MsgQuantity))
}

func TestLocalizer_Label(t *testing.T) {
	es := i18n.New(language.Spanish)
	assert.Equal(t, "Stock bajo", es.Label("low-stock"))
	assert.Equal(t, "Salida", es.Label("outgoing"))
	assert.Equal(t, "something-else", es.Label("something-else"))
}

func TestLocalizer_Describe(t *testing.T) {
	en := i18n.New(language.English)

	verr := &domain.ValidationError{}
	verr.Add("sku", "is required")
	verr.Add("name", "is required")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", verr, "Please correct the following fields: name is required; sku is required"},
		{"unauthorized", &api.RequestError{Status: 401}, i18n.MsgErrAuth},
		{"not found", fmt.Errorf("get: %w", &api.RequestError{Status: 404}), i18n.MsgErrNotFound},
		{"request with message", &api.RequestError{Status: 409, Message: "sku taken"}, "Request failed (409): sku taken"},
		{"request without message", &api.RequestError{Status: 500}, "Request failed (500)"},
		{"network", &api.NetworkError{Method: "GET", Path: "/inventory", Err: errors.New("refused")}, i18n.MsgErrNetwork},
		{"decode", &api.DecodeError{Path: "/inventory", Err: errors.New("eof")}, i18n.MsgErrDecode},
		{
			"partial",
			&services.PartialFailureError{ItemID: "item-1", Reference: "MOV-1", Err: &api.NetworkError{Err: errors.New("refused")}},
			"Partially applied: item item-1 was updated but its transaction was not recorded (reference MOV-1). It has been reported for reconciliation.",
		},
		{"other", errors.New("boom"), "Error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, en.Describe(tt.err))
		})
	}
}

func TestLocalizer_DescribeTranslated(t *testing.T) {
	id := i18n.New(language.Indonesian)
	assert.Equal(t, "Permintaan gagal (500)", id.Describe(&api.RequestError{Status: 500}))
}

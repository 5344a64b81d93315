package conversion

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"fileconverter/formats"
	"fileconverter/provider"
	"fileconverter/validation"
)

func TestTranslate_NetworkFailureIsServiceUnreachable(t *testing.T) {
	err := &url.Error{Op: "Post", URL: "https://v2.convertapi.com", Err: errors.New("connection refused")}

	cerr := Translate(err)
	if cerr.Kind != KindServiceUnreachable || cerr.Status != http.StatusInternalServerError {
		t.Errorf("got kind %s status %d, want %s/500", cerr.Kind, cerr.Status, KindServiceUnreachable)
	}
}

func TestTranslate_UnknownKeepsProviderMessage(t *testing.T) {
	cerr := Translate(&provider.Error{Code: 5001, Message: "Conversion worker crashed"})
	if cerr.Kind != KindUnknown || cerr.Status != http.StatusInternalServerError {
		t.Errorf("got kind %s status %d", cerr.Kind, cerr.Status)
	}
	if cerr.Message != "Conversion worker crashed" {
		t.Errorf("Message = %q, want the provider's raw message", cerr.Message)
	}
}

func TestTranslate_ProviderCodes(t *testing.T) {
	cases := []struct {
		perr *provider.Error
		kind Kind
	}{
		{&provider.Error{Code: provider.CodeParameterValidation}, KindInvalidInput},
		{&provider.Error{Code: provider.CodeInvalidSourceFile}, KindCorruptSource},
		{&provider.Error{HTTPStatus: http.StatusForbidden}, KindServiceMisconfigured},
		{&provider.Error{HTTPStatus: http.StatusUnsupportedMediaType}, KindUnsupportedPair},
	}

	for _, c := range cases {
		if got := Translate(c.perr); got.Kind != c.kind {
			t.Errorf("Translate(%+v).Kind = %s, want %s", c.perr, got.Kind, c.kind)
		}
	}
}

func TestTranslate_PreservesDiagnosticDetails(t *testing.T) {
	perr := &provider.Error{Code: provider.CodeParameterValidation, Details: []byte(`{"File":"empty"}`)}
	if got := Translate(perr); len(got.Details) == 0 {
		t.Error("provider diagnostic payload should survive translation")
	}
}

func TestFromValidation(t *testing.T) {
	v := validation.NewValidator(formats.DefaultMatrix())

	pinned := FromValidation(v.Validate("song.wav", formats.CategoryAudio, "mp3"))
	if pinned.Kind != KindWrongPinnedExtension || pinned.Status != http.StatusBadRequest {
		t.Errorf("pinned mismatch: got kind %s status %d", pinned.Kind, pinned.Status)
	}

	outside := FromValidation(v.Validate("song.mp3", formats.CategoryImage, ""))
	if outside.Kind != KindUnsupportedCategoryExtension {
		t.Errorf("category mismatch: got kind %s", outside.Kind)
	}
}

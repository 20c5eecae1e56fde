package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

type createCourseShape struct {
	Name    string   `validate:"required"`
	Credits *float64 `validate:"omitempty,gt=0"`
}

func TestBindingErrorMessageFieldErrors(t *testing.T) {
	validate := validator.New()

	zero := 0.0
	err := validate.Struct(createCourseShape{Credits: &zero})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	msg := BindingErrorMessage(err)
	if !strings.Contains(msg, "name is required") {
		t.Errorf("message %q missing required-field detail", msg)
	}
	if !strings.Contains(msg, "credits must be greater than 0") {
		t.Errorf("message %q missing range detail", msg)
	}
}

func TestBindingErrorMessageNonValidatorError(t *testing.T) {
	msg := BindingErrorMessage(errors.New("unexpected EOF"))
	if msg != "request body is not valid JSON for this operation" {
		t.Errorf("message = %q", msg)
	}
}

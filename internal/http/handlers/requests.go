package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"donationtracker/internal/domain"
)

const (
	msgInvalidType      = "Invalid donation type"
	msgInvalidDate      = "Invalid date format"
	msgValidationFailed = "Validation failed"
)

type createDonationRequest struct {
	DonorName string   `json:"donorName" validate:"required,notblank"`
	Type      string   `json:"type" validate:"donation_type"`
	Quantity  *float64 `json:"quantity" validate:"required,gte=0"`
	Unit      string   `json:"unit" validate:"required,notblank"`
	Date      string   `json:"date" validate:"donation_date"`
	Notes     *string  `json:"notes"`
}

type updateDonationRequest struct {
	DonorName *string  `json:"donorName" validate:"omitempty,notblank"`
	Type      *string  `json:"type" validate:"omitempty,donation_type"`
	Quantity  *float64 `json:"quantity" validate:"omitempty,gte=0"`
	Unit      *string  `json:"unit" validate:"omitempty,notblank"`
	Date      *string  `json:"date" validate:"omitempty,donation_date"`
	Notes     *string  `json:"notes"`
}

// fieldError is one entry of a "Validation failed" details list.
type fieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// requestError is a 400 the handler can render directly.
type requestError struct {
	msg     string
	details []fieldError
}

func (e *requestError) Error() string { return e.msg }

// newValidator builds the request validator; date checks resolve against now
// so they agree with the later conversion into domain values.
func newValidator(now func() time.Time) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("donation_type", func(fl validator.FieldLevel) bool {
		return domain.DonationType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("donation_date", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDonationDate(fl.Field().String(), now())
		return err == nil
	})
	return v
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &requestError{
			msg:     msgValidationFailed,
			details: []fieldError{{Field: "body", Rule: "json", Message: "request body must be a JSON object: " + err.Error()}},
		}
	}
	return nil
}

// checkStruct runs the validator and collapses failures into the facade's
// error vocabulary: a bad type wins over a bad date, which wins over the rest.
func (a *App) checkStruct(req any) error {
	err := a.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	details := make([]fieldError, 0, len(verrs))
	badType, badDate := false, false
	for _, fe := range verrs {
		switch fe.Tag() {
		case "donation_type":
			badType = true
		case "donation_date":
			badDate = true
		}
		details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag(), Message: describe(fe)})
	}
	switch {
	case badType:
		return &requestError{msg: msgInvalidType}
	case badDate:
		return &requestError{msg: msgInvalidDate}
	}
	return &requestError{msg: msgValidationFailed, details: details}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be empty"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

func (req createDonationRequest) toDraft(now time.Time) (domain.DonationDraft, error) {
	date, err := domain.ParseDonationDate(req.Date, now)
	if err != nil {
		return domain.DonationDraft{}, &requestError{msg: msgInvalidDate}
	}
	draft := domain.DonationDraft{
		DonorName: req.DonorName,
		Type:      domain.DonationType(req.Type),
		Quantity:  *req.Quantity,
		Unit:      req.Unit,
		Date:      date,
	}
	if req.Notes != nil {
		draft.Notes = *req.Notes
	}
	return draft, nil
}

func (req updateDonationRequest) toPatch(now time.Time) (domain.DonationPatch, error) {
	patch := domain.DonationPatch{
		DonorName: req.DonorName,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		Notes:     req.Notes,
	}
	if req.Type != nil {
		t := domain.DonationType(*req.Type)
		patch.Type = &t
	}
	if req.Date != nil {
		date, err := domain.ParseDonationDate(*req.Date, now)
		if err != nil {
			return domain.DonationPatch{}, &requestError{msg: msgInvalidDate}
		}
		patch.Date = &date
	}
	return patch, nil
}

// domainValidationError maps a store-side rejection onto the facade's messages.
func domainValidationError(err error) *requestError {
	switch {
	case errors.Is(err, domain.ErrInvalidType):
		return &requestError{msg: msgInvalidType}
	case errors.Is(err, domain.ErrInvalidDate):
		return &requestError{msg: msgInvalidDate}
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return &requestError{
			msg:     msgValidationFailed,
			details: []fieldError{{Field: ve.Field, Rule: "domain", Message: ve.Error()}},
		}
	}
	return &requestError{msg: msgValidationFailed}
}

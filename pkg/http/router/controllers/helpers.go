package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/smartmeet/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

func (api *campusAPI) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *campusAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var res errorResponse
	res.Error.Code = code
	res.Error.Message = message
	if err := api.writeJSON(w, status, res, nil); err != nil {
		// headers are already sent, nothing left to tell the client
		api.log.Error("write error response", zap.Error(err), zap.String("path", r.URL.Path))
	}
}

func (api *campusAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.Error(err), zap.String("method", r.Method), zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, "internal_server_error", util.MessageInternalServerError)
}

func (api *campusAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "bad_request", err.Error())
}

func (api *campusAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, "not_found", err.Error())
}

func (api *campusAPI) ConflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusConflict, "conflict", err.Error())
}

// getStatusCode writes the error response matching the util error code of err.
func (api *campusAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		api.errorResponse(w, r, http.StatusServiceUnavailable, "request_cancelled", "request cancelled before completion")
		return
	}

	switch util.ErrorCode(err) {
	case util.ErrNotFound:
		api.NotFoundResponse(w, r, err)
	case util.ErrBadParamInput:
		api.BadRequestResponse(w, r, err)
	case util.ErrConflict:
		api.ConflictResponse(w, r, err)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

var (
	requestValidator  = validator.New()
	requestTranslator ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	requestTranslator, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(requestValidator, requestTranslator)
}

func validateRequest(request any) error {
	err := requestValidator.Struct(request)
	if err == nil {
		return nil
	}
	vv := translateError(err, requestTranslator)
	vvString := []string{}
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return fmt.Errorf("validation error: %v", vvString)
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func parseFloatQuery(query url.Values, key string) (float64, error) {
	v, err := strconv.ParseFloat(query.Get(key), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s is required and must be a valid float", key)
	}
	return v, nil
}

func parseOptionalFloatQuery(query url.Values, key string, def float64) (float64, error) {
	if query.Get(key) == "" {
		return def, nil
	}
	return parseFloatQuery(query, key)
}

func parseOptionalIntQuery(query url.Values, key string, def int) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid int", key)
	}
	return v, nil
}

func parseCoordinateQuery(query url.Values, latKey, lngKey string) (coordinateDTO, error) {
	lat, err := parseFloatQuery(query, latKey)
	if err != nil {
		return coordinateDTO{}, err
	}
	lng, err := parseFloatQuery(query, lngKey)
	if err != nil {
		return coordinateDTO{}, err
	}
	return coordinateDTO{Lat: lat, Lng: lng}, nil
}

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/paykit/go-money/errors"
	"github.com/paykit/go-money/money"
	"go.uber.org/zap"
)

// HTTPError is an error with a message and an HTTP status code.
type HTTPError struct {
	Code            int    `json:"code"`
	Message         string `json:"msg"`
	InternalError   error  `json:"-"`
	InternalMessage string `json:"-"`
	ErrorID         string `json:"error_id,omitempty"`
}

func (e *HTTPError) Error() string {
	if e.InternalMessage != "" {
		return e.InternalMessage
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// Cause returns the root cause error.
func (e *HTTPError) Cause() error {
	if e.InternalError != nil {
		return e.InternalError
	}
	return e
}

// WithInternalError adds internal error information to the error.
func (e *HTTPError) WithInternalError(err error) *HTTPError {
	e.InternalError = err
	return e
}

func httpError(code int, fmtString string, args ...interface{}) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: fmt.Sprintf(fmtString, args...),
	}
}

// BadRequestError builds a 400 error.
func BadRequestError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusBadRequest, fmtString, args...)
}

// NotFoundError builds a 404 error.
func NotFoundError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusNotFound, fmtString, args...)
}

// ConflictError builds a 409 error.
func ConflictError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusConflict, fmtString, args...)
}

// InternalServerError builds a 500 error.
func InternalServerError(fmtString string, args ...interface{}) *HTTPError {
	return httpError(http.StatusInternalServerError, fmtString, args...)
}

// fromDomainError translates ledger and money errors into HTTPErrors.
// Errors that match nothing are returned as-is and end up as a
// hidden 500.
func fromDomainError(err error) error {
	var appErr *errors.Error

	if errors.As(err, &appErr) {
		var httpErr *HTTPError

		switch appErr.Type {
		case errors.ErrorTypeInvalid:
			httpErr = BadRequestError("%s", appErr.Details)

		case errors.ErrorTypeNotFound:
			httpErr = NotFoundError("%s", appErr.Details)

		case errors.ErrorTypeConflict:
			httpErr = ConflictError("%s", appErr.Details)

		default:
			httpErr = InternalServerError("internal error")
		}

		return httpErr.WithInternalError(err)
	}

	if errors.Is(err, money.ErrInvalidValue) ||
		errors.Is(err, money.ErrNegativeResult) {
		return BadRequestError("%s", err.Error()).WithInternalError(err)
	}

	return err
}

type errorCause interface {
	Cause() error
}

// HandleError renders err as a JSON response and logs it. Unknown
// errors are hidden behind a generic 500 message to prevent
// information leaks.
func HandleError(log *zap.Logger, err error, w http.ResponseWriter, r *http.Request) {
	errorID := middleware.GetReqID(r.Context())

	switch e := fromDomainError(err).(type) {
	case *HTTPError:
		if e.Code >= http.StatusInternalServerError {
			e.ErrorID = errorID
			log.With(zap.Error(e.Cause())).Error(e.Error())
		} else {
			log.With(zap.Error(e.Cause())).Warn(e.Error())
		}

		if jsonErr := SendJSON(w, e.Code, e); jsonErr != nil {
			HandleError(log, jsonErr, w, r)
		}

	case errorCause:
		HandleError(log, e.Cause(), w, r)

	default:
		log.With(zap.Error(e)).Error(e.Error())

		w.WriteHeader(http.StatusInternalServerError)
		if _, writeErr := w.Write([]byte(
			`{"code":500,"msg":"Internal server error","error_id":"` +
				errorID + `"}`,
		)); writeErr != nil {
			log.With(zap.Error(writeErr)).Error(e.Error())
		}
	}
}

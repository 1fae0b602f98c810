package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vibe-gaming/enrollment/internal/service"
	"github.com/vibe-gaming/enrollment/pkg/logger"
)

func errorResponse(c *gin.Context, status int, code ErrorCode) {
	c.AbortWithStatusJSON(status, getErrorStruct(code))
}

func validationErrorResponse(c *gin.Context, err error) {
	response := ValidationErrorStruct{
		ErrorCode:    ValidationErrorCode,
		ErrorMessage: ValidationErrorMessage,
	}

	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		response.Errors = make([]ValidationError, len(verr))
		for i, ferr := range verr {
			response.Errors[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
		}
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, response)
}

// bindErrorResponse reports gin binding failures: rule violations as
// validation errors, anything else as a malformed body.
func bindErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		validationErrorResponse(c, err)
		return
	}

	errorResponse(c, http.StatusBadRequest, InvalidRequestBodyCode)
}

// serviceErrorResponse writes the api error matching a registration service error.
func serviceErrorResponse(c *gin.Context, err error) {
	var rejected *service.StoreRejectedError

	switch {
	case errors.Is(err, service.ErrValidation):
		validationErrorResponse(c, err)
	case errors.Is(err, service.ErrRegistrationNotFound):
		errorResponse(c, http.StatusNotFound, RegistrationNotFoundCode)
	case errors.Is(err, service.ErrAlreadyAttached):
		errorResponse(c, http.StatusConflict, RegistrationAlreadyAttachedCode)
	case errors.Is(err, service.ErrSessionTaken):
		errorResponse(c, http.StatusConflict, SessionTakenCode)
	case errors.Is(err, service.ErrInvalidStatus):
		errorResponse(c, http.StatusBadRequest, InvalidStatusCode)
	case errors.Is(err, service.ErrNetworkUnavailable):
		errorResponse(c, http.StatusServiceUnavailable, StoreUnavailableCode)
	case errors.Is(err, service.ErrUnsupported):
		errorResponse(c, http.StatusNotImplemented, StoreUnsupportedCode)
	case errors.As(err, &rejected):
		response := getErrorStruct(StoreRejectedCode)
		if rejected.Reason != "" {
			response.ErrorMessage = ErrorMessage(rejected.Reason)
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, response)
	default:
		logger.Error("registration request failed", zap.Error(err), zap.String("path", c.FullPath()))
		errorResponse(c, http.StatusInternalServerError, UnknownErrorCode)
	}
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "kioskemail":
		return "Invalid email address"
	case "phonenumber":
		return "Phone number must contain digits only, optionally prefixed with +"
	case "sessionid":
		return "Session id may contain only letters, digits, - and _"
	case "min":
		return fmt.Sprintf("Minimum length is %v", value)
	case "max":
		return fmt.Sprintf("Maximum length is %v", value)
	}
	return tag
}

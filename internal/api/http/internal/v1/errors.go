package v1

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "unknown error"

	InvalidRequestBodyCode    = 1001
	InvalidRequestBodyMessage = "invalid request body"

	RegistrationNotFoundCode        = 2001
	RegistrationNotFoundMessage     = "registration not found"
	RegistrationAlreadyAttachedCode = 2002
	RegistrationAlreadyAttachedMsg  = "registration already attached"
	SessionTakenCode                = 2003
	SessionTakenMessage             = "session id already used"
	InvalidStatusCode               = 2004
	InvalidStatusMessage            = "status must be pending or waiting_for_external_attachment"

	StoreUnavailableCode    = 3001
	StoreUnavailableMessage = "network error"
	StoreRejectedCode       = 3002
	StoreRejectedMessage    = "store rejected the registration"
	StoreUnsupportedCode    = 3003
	StoreUnsupportedMessage = "operation not supported by the configured store"

	ValidationErrorCode    = 6000
	ValidationErrorMessage = "Validation error"
)

type ErrorCode int
type ErrorMessage string

type ErrorStruct struct {
	ErrorCode    `json:"error_code"`
	ErrorMessage `json:"error_message"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	Errors       []ValidationError `json:"validation_errors"`
} // @name ValidationErrorStruct

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func getErrorStruct(code ErrorCode) *ErrorStruct {
	errorStruct := &ErrorStruct{
		ErrorCode:    UnknownErrorCode,
		ErrorMessage: UnknownErrorMessage,
	}

	switch code {
	case InvalidRequestBodyCode:
		errorStruct.ErrorCode = InvalidRequestBodyCode
		errorStruct.ErrorMessage = InvalidRequestBodyMessage
	case RegistrationNotFoundCode:
		errorStruct.ErrorCode = RegistrationNotFoundCode
		errorStruct.ErrorMessage = RegistrationNotFoundMessage
	case RegistrationAlreadyAttachedCode:
		errorStruct.ErrorCode = RegistrationAlreadyAttachedCode
		errorStruct.ErrorMessage = RegistrationAlreadyAttachedMsg
	case SessionTakenCode:
		errorStruct.ErrorCode = SessionTakenCode
		errorStruct.ErrorMessage = SessionTakenMessage
	case InvalidStatusCode:
		errorStruct.ErrorCode = InvalidStatusCode
		errorStruct.ErrorMessage = InvalidStatusMessage
	case StoreUnavailableCode:
		errorStruct.ErrorCode = StoreUnavailableCode
		errorStruct.ErrorMessage = StoreUnavailableMessage
	case StoreRejectedCode:
		errorStruct.ErrorCode = StoreRejectedCode
		errorStruct.ErrorMessage = StoreRejectedMessage
	case StoreUnsupportedCode:
		errorStruct.ErrorCode = StoreUnsupportedCode
		errorStruct.ErrorMessage = StoreUnsupportedMessage
	}

	return errorStruct
}

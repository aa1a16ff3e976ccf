package types

import (
	"errors"
	"net/http"
)

// ErrorCode values travel on the wire in the "code" field of error
// responses. The Spanish codes predate this service and are relied on by
// the frontend to pick the right UI response, so they stay as-is.
type ErrorCode string

const (
	CODE_NOT_FOUND         ErrorCode = "RECURSO_NO_ENCONTRADO"
	CODE_VALIDATION_FAILED ErrorCode = "VALIDACION_FALLIDA"
	CODE_SOLD_OUT          ErrorCode = "ENTRADAS_AGOTADAS"
	CODE_CAPACITY_FULL     ErrorCode = "AFORO_COMPLETO"
	CODE_TICKET_INVALID    ErrorCode = "BOLETO_INVALIDO"
	CODE_ALREADY_USED      ErrorCode = "BOLETO_YA_USADO"
	CODE_STORAGE_ERROR     ErrorCode = "ERROR_BASE_DATOS"
	CODE_UNAUTHORIZED      ErrorCode = "NO_AUTORIZADO"
)

var errorMessages = map[ErrorCode]string{
	CODE_NOT_FOUND:         "El recurso solicitado no existe",
	CODE_VALIDATION_FAILED: "Los datos proporcionados no son válidos",
	CODE_SOLD_OUT:          "No hay entradas disponibles para esta categoría",
	CODE_CAPACITY_FULL:     "El evento ha alcanzado su capacidad máxima",
	CODE_TICKET_INVALID:    "El código QR del boleto no es válido",
	CODE_ALREADY_USED:      "Este boleto ya fue utilizado",
	CODE_STORAGE_ERROR:     "Error al acceder a la base de datos",
	CODE_UNAUTHORIZED:      "No tiene permisos para realizar esta acción",
}

// AppError is the single error shape business operations return. Capacity
// and validation failures are expected outcomes, not faults; only
// CODE_STORAGE_ERROR represents an actual system failure.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewAppError(code ErrorCode, message string) *AppError {
	if message == "" {
		message = errorMessages[code]
	}
	return &AppError{Code: code, Message: message}
}

// StorageError wraps an underlying persistence failure so handlers can log
// the cause while the client only sees the generic database message.
func StorageError(cause error) *AppError {
	return &AppError{
		Code:    CODE_STORAGE_ERROR,
		Message: errorMessages[CODE_STORAGE_ERROR],
		cause:   cause,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CODE_STORAGE_ERROR
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CODE_NOT_FOUND:
		return http.StatusNotFound
	case CODE_VALIDATION_FAILED, CODE_SOLD_OUT, CODE_CAPACITY_FULL,
		CODE_TICKET_INVALID, CODE_ALREADY_USED:
		return http.StatusBadRequest
	case CODE_UNAUTHORIZED:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

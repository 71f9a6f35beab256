package ledgersdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/ledger/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeMissingField         = "missing_field"
	ErrorCodeDuplicateClient      = "duplicate_client"
	ErrorCodeNotFound             = "not_found"
	ErrorCodeNotOnboarded         = "not_onboarded"
	ErrorCodeConfirmationRequired = "confirmation_required"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeInsufficientScope    = "insufficient_scope"
	ErrorCodeRateLimited          = "rate_limit_exceeded"
	ErrorCodeServerError          = "server_error"
)

// APIError is an error response from the dashboard API. The server writes
// these and the client returns them.
type APIError struct {
	StatusCode  int               `json:"-"`
	Code        string            `json:"error"`
	Description string            `json:"error_description"`
	Fields      map[string]string `json:"fields,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on Code, and on StatusCode when the target sets one, so
// errors.Is(err, ErrDuplicateClient) works on any duplicate response.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.StatusCode == 0 || t.StatusCode == e.StatusCode)
}

// WithField returns a copy of e that names the offending field.
func (e *APIError) WithField(field, msg string) *APIError {
	out := *e
	out.Fields = map[string]string{field: msg}
	return &out
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	out := *e
	out.Description = desc
	return &out
}

// WriteError writes e as the JSON error body.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, httpx.ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
		Fields:           e.Fields,
	})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed",
	}

	ErrMissingField = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMissingField,
		Description: "a required field is empty",
	}

	ErrDuplicateClient = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDuplicateClient,
		Description: "a client with the same email or phone already exists",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrNotOnboarded = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeNotOnboarded,
		Description: "only self-onboarded clients have an approval status",
	}

	ErrConfirmationRequired = &APIError{
		StatusCode:  http.StatusPreconditionRequired,
		Code:        ErrorCodeConfirmationRequired,
		Description: "deletion must be confirmed with confirm=true",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the access token is missing, invalid or expired",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp httpx.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
			Fields:      errResp.Fields,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}

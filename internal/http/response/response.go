package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/heraldry-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	respond(c, status, code, err, nil)
}

// RespondErr maps err through apierr.Classify. Untagged errors come out as
// store failures.
func RespondErr(c *gin.Context, err error) {
	ae := apierr.Classify(err)
	if ae == nil {
		ae = apierr.New(http.StatusInternalServerError, "internal", errors.New("unknown error"))
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	respond(c, status, ae.Code, ae.Err, ae.Details)
}

func respond(c *gin.Context, status int, code string, err error, details any) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
			Details: details,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

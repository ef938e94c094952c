package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/smart-campus-hub/internal/chat"
	"github.com/iliyamo/smart-campus-hub/internal/repository"
	"github.com/iliyamo/smart-campus-hub/internal/storage"
)

// Every JSON response is an envelope: {success, data, count?} on success
// and {success:false, message, error?} on failure.

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func okList[T any](c echo.Context, data []T) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data, "count": len(data)})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// writeError converts err into the failure envelope.
func writeError(c echo.Context, err error) error {
	status, body := errorBody(err)
	return c.JSON(status, body)
}

func errorBody(err error) (int, echo.Map) {
	body := echo.Map{"success": false}

	var (
		nf *repository.NotFoundError
		ve *repository.ValidationError
		fe validator.ValidationErrors
		up *chat.UpstreamError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &nf):
		body["message"] = nf.Message()
		return http.StatusNotFound, body
	case errors.As(err, &ve):
		body["message"] = ve.Message
		return http.StatusBadRequest, body
	case errors.Is(err, repository.ErrCapacityExceeded):
		body["message"] = "Event is full"
		return http.StatusBadRequest, body
	case errors.As(err, &fe):
		body["message"] = fieldMessage(fe[0])
		return http.StatusBadRequest, body
	case errors.Is(err, chat.ErrNoMessages):
		body["message"] = "No messages provided"
		return http.StatusBadRequest, body
	case errors.As(err, &up):
		body["message"] = up.Message
		body["error"] = up.Payload
		return http.StatusInternalServerError, body
	case errors.Is(err, storage.ErrUnsupportedType):
		body["message"] = "Only jpg, png and gif images can be uploaded"
		return http.StatusBadRequest, body
	case errors.Is(err, storage.ErrTooLarge):
		body["message"] = "File too large"
		return http.StatusBadRequest, body
	case errors.As(err, &he):
		body["message"] = httpErrorMessage(he)
		return he.Code, body
	}
	body["message"] = "Internal server error"
	body["error"] = err.Error()
	return http.StatusInternalServerError, body
}

func httpErrorMessage(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	if he.Message == nil {
		return http.StatusText(he.Code)
	}
	return fmt.Sprint(he.Message)
}

// NewHTTPErrorHandler renders errors returned by handlers and middleware,
// including unknown routes and recovered panics, as the failure envelope.
func NewHTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorBody(err)
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("request failed")
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Warn("write error response")
		}
	}
}

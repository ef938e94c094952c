package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// BlobStore persists an uploaded file and returns the public path it is
// served from. Remove deletes a file previously returned by Put.
type BlobStore interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

// saveUpload stores the optional file sent in field. Requests that are not
// multipart, or carry no such file, yield an empty path.
func saveUpload(c echo.Context, store BlobStore, field string) (string, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return "", nil
	}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid "+field+" upload")
	}
	if store == nil {
		return "", echo.NewHTTPError(http.StatusServiceUnavailable, "Uploads are disabled")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return store.Put(c.Request().Context(), fh.Filename, f)
}

// discardUpload removes the stored file of a rejected report.
func discardUpload(c echo.Context, store BlobStore, path string) {
	if path == "" || store == nil {
		return
	}
	if err := store.Remove(c.Request().Context(), path); err != nil {
		c.Logger().Warnf("remove rejected upload %s: %v", path, err)
	}
}

// coordinate accepts a JSON number, a numeric string or a form value.
// Anything that does not parse as a finite number is treated as absent.
type coordinate struct {
	v *float64
}

func (p *coordinate) UnmarshalParam(s string) error {
	p.v = parseCoordinate(s)
	return nil
}

func (p *coordinate) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		p.v = nil
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		p.v = finite(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		p.v = parseCoordinate(s)
	}
	return nil
}

func parseCoordinate(s string) *float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return finite(n)
}

// finite drops NaN and the infinities, which JSON cannot carry.
func finite(n float64) *float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil
	}
	return &n
}

// tagList accepts a JSON array, or a comma separated string in JSON or
// form bodies.
type tagList []string

func (t *tagList) UnmarshalParam(s string) error {
	*t = splitTags(s)
	return nil
}

func (t *tagList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*t = arr
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = splitTags(s)
	return nil
}

func splitTags(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

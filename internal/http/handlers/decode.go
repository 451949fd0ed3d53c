package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/yungbote/codepath-backend/internal/pkg/errors"
)

const maxBodyBytes = 1 << 15

// decodeStrict reads exactly one JSON object into dst, rejecting unknown
// fields and trailing data. Failures are InvalidArgument errors.
func decodeStrict(c *gin.Context, dst any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errs.Invalid("body", "is required")
		case errors.As(err, &maxErr):
			return errs.Invalid("body", "exceeds %d bytes", maxBodyBytes)
		default:
			return fmt.Errorf("%w: body %s", errs.ErrInvalidArgument, err.Error())
		}
	}
	if dec.More() {
		return errs.Invalid("body", "must contain a single JSON object")
	}
	return nil
}

// missing returns an InvalidArgument error listing required fields left unset.
func missing(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if len(fields) == 1 {
		return errs.Invalid(fields[0], "is required")
	}
	return fmt.Errorf("%w: missing required fields %v", errs.ErrInvalidArgument, fields)
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/seowalex/cvwo/internal/auth"
	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/dto"
	"github.com/seowalex/cvwo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const attributesPointer = "/data/attributes/"

// errConflict marks a document whose type or id does not match the endpoint.
var errConflict = errors.New("conflict")

func writeDocument(c *gin.Context, status int, doc any) {
	c.Header("Content-Type", dto.MediaType)
	c.JSON(status, doc)
}

func writeErrors(c *gin.Context, status int, objs ...dto.ErrorObject) {
	writeDocument(c, status, dto.ErrorDocument{Errors: objs})
}

// writeError maps service, validation and binding errors to JSON:API error
// documents. Unexpected errors are logged and reported without detail.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var (
		verr   *dom.ValidationError
		fields validator.ValidationErrors
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeErrors(c, http.StatusNotFound, dto.NewError(http.StatusNotFound, "resource not found"))
	case errors.Is(err, auth.ErrUnauthenticated):
		writeErrors(c, http.StatusUnauthorized, dto.NewError(http.StatusUnauthorized, "authentication required"))
	case errors.Is(err, errConflict):
		writeErrors(c, http.StatusConflict, dto.NewError(http.StatusConflict, err.Error()))
	case errors.As(err, &verr):
		status := http.StatusUnprocessableEntity
		if verr.Parameter {
			status = http.StatusBadRequest
		}
		objs := make([]dto.ErrorObject, len(verr.Fields))
		for i, f := range verr.Fields {
			objs[i] = dto.NewError(status, f.Field+" "+f.Message)
			if verr.Parameter {
				objs[i].Source = &dto.ErrorSource{Parameter: f.Field}
			} else {
				objs[i].Source = &dto.ErrorSource{Pointer: attributesPointer + f.Field}
			}
		}
		writeErrors(c, status, objs...)
	case errors.As(err, &fields):
		objs := make([]dto.ErrorObject, len(fields))
		for i, fe := range fields {
			objs[i] = dto.NewError(http.StatusBadRequest, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
			objs[i].Source = &dto.ErrorSource{Pointer: "/" + strings.ReplaceAll(jsonPath(fe.Namespace()), ".", "/")}
		}
		writeErrors(c, http.StatusBadRequest, objs...)
	case isDecodeError(err):
		writeErrors(c, http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
	default:
		log.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "err", err)
		writeErrors(c, http.StatusInternalServerError, dto.NewError(http.StatusInternalServerError, ""))
	}
}

// jsonPath turns a validator namespace such as "CreateTaskDocument.Data.Type"
// into "data.type".
func jsonPath(ns string) string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}

type decodeError struct{ err error }

func (e decodeError) Error() string { return "malformed request body: " + e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	var d decodeError
	return errors.As(err, &d)
}

// bindDocument decodes a JSON body strictly, rejecting unknown members, and
// runs the binding validator over it. An attribute of the wrong type is a
// field error on that attribute; any other decode failure is a decodeError.
func bindDocument(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return decodeError{errors.New("empty body")}
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			if attr, ok := strings.CutPrefix(typeErr.Field, attributesPath); ok && attr != "" {
				return dom.NewFieldError(strings.ReplaceAll(attr, ".", "/"), typeMessage(typeErr.Type))
			}
		}
		return decodeError{err}
	}
	return binding.Validator.ValidateStruct(v)
}

// attributesPath prefixes the decoder's field path of document attributes.
const attributesPath = "data.attributes."

func typeMessage(t reflect.Type) string {
	if dom.IsDateType(t) {
		return "must be a date in YYYY-MM-DD format"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "must be true or false"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.String:
		return "must be a string"
	case reflect.Slice, reflect.Array:
		return "must be an array"
	default:
		return "has the wrong type"
	}
}

// checkResource verifies the resource type and, when given, the id.
func checkResource(gotType, wantType, gotID, wantID string) error {
	if gotType != wantType {
		return fmt.Errorf("%w: resource type %q does not match endpoint type %q", errConflict, gotType, wantType)
	}
	if gotID != "" && gotID != wantID {
		return fmt.Errorf("%w: resource id %q does not match URL id %q", errConflict, gotID, wantID)
	}
	return nil
}

// parseID accepts positive integer ids. Anything else cannot name a task.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func identity(c *gin.Context) auth.Identity {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		// Routes are registered behind RequireIdentity.
		panic("handlers: identity missing from context")
	}
	return id
}

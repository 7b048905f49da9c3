// Package validation binds and validates request body, uri params and query
// in one gin middleware, answering 400 {"error": ...} on the first failure.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/duccv/employee-api/internal/model/response"
)

const (
	bodyKey   = "validatedBody"
	paramsKey = "validatedParams"
	queryKey  = "validatedQuery"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json/uri/form names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "uri", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

func isEmptyInterface[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t == reflect.TypeOf((*any)(nil)).Elem()
}

// Validate binds B from the JSON body, P from uri params and Q from the query
// string. Pass any for a part that should not be bound.
func Validate[B any, P any, Q any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isEmptyInterface[B]() {
			var body B

			rawData, err := io.ReadAll(c.Request.Body)
			if err != nil {
				abort(c, "invalid request body")
				return
			}

			// an empty body binds to the zero value and fails on required fields
			if len(bytes.TrimSpace(rawData)) > 0 {
				if err := json.Unmarshal(rawData, &body); err != nil {
					abort(c, bindMessage(err))
					return
				}
			}
			if err := validate.Struct(body); err != nil {
				abort(c, Message(err))
				return
			}

			c.Request.Body = io.NopCloser(bytes.NewBuffer(rawData))
			c.Set(bodyKey, body)
		}

		if !isEmptyInterface[P]() {
			var params P

			if err := c.ShouldBindUri(&params); err != nil {
				abort(c, err.Error())
				return
			}
			if err := validate.Struct(params); err != nil {
				abort(c, Message(err))
				return
			}
			c.Set(paramsKey, params)
		}

		if !isEmptyInterface[Q]() {
			var query Q

			if err := c.ShouldBindQuery(&query); err != nil {
				abort(c, err.Error())
				return
			}
			if err := validate.Struct(query); err != nil {
				abort(c, Message(err))
				return
			}
			c.Set(queryKey, query)
		}

		c.Next()
	}
}

func abort(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response.ErrorData{Error: msg})
}

// Body returns the body bound by Validate.
func Body[T any](c *gin.Context) T { return get[T](c, bodyKey) }

// Params returns the uri params bound by Validate.
func Params[T any](c *gin.Context) T { return get[T](c, paramsKey) }

// Query returns the query bound by Validate.
func Query[T any](c *gin.Context) T { return get[T](c, queryKey) }

func get[T any](c *gin.Context, key string) T {
	v, _ := c.Get(key)
	t, _ := v.(T)
	return t
}

// Message turns a validator error into a short client-facing sentence.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}

func bindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}
	return "invalid request body"
}

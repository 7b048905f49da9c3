// Package handler holds the HTTP handlers. Each handler returns a Result or an
// error and never writes the response itself; Adapter.Wrap does that.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/duccv/employee-api/internal/apperr"
	"github.com/duccv/employee-api/internal/constant"
	"github.com/duccv/employee-api/internal/model/response"
	"github.com/duccv/employee-api/util"
	"github.com/gin-gonic/gin"
)

// Result is a successful response: a status code and a JSON body.
type Result struct {
	Status int
	Body   any
}

func OK(body any) Result { return Result{Status: http.StatusOK, Body: body} }

func Created(body any) Result { return Result{Status: http.StatusCreated, Body: body} }

type HandlerFunc func(c *gin.Context) (Result, error)

// Adapter turns HandlerFuncs into gin handlers.
type Adapter struct {
	exposeInternalErrors bool
}

// NewAdapter returns an Adapter. With exposeInternalErrors set, 500 responses
// carry the underlying error text instead of a generic message.
func NewAdapter(exposeInternalErrors bool) *Adapter {
	return &Adapter{exposeInternalErrors: exposeInternalErrors}
}

// Wrap serializes h's Result as JSON, or its error as {"error": message} with
// the status of the error's kind. 200 GET responses get an ETag and honor
// If-None-Match.
func (a *Adapter) Wrap(h HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h(c)
		if c.Writer.Written() {
			return
		}
		if err != nil {
			a.writeError(c, err)
			return
		}
		a.writeResult(c, res)
	}
}

func (a *Adapter) writeError(c *gin.Context, err error) {
	ae := apperr.From(err)
	msg := ae.Message
	if ae.Kind == apperr.KindInternal {
		_ = c.Error(err)
		if !a.exposeInternalErrors {
			msg = constant.MsgInternalError
		}
	}
	c.AbortWithStatusJSON(ae.Kind.Status(), response.ErrorData{Error: msg})
}

func (a *Adapter) writeResult(c *gin.Context, res Result) {
	body, err := json.Marshal(res.Body)
	if err != nil {
		a.writeError(c, apperr.Internal(err))
		return
	}

	if c.Request.Method == http.MethodGet && res.Status == http.StatusOK {
		etag := util.GenerateETag(body)
		c.Header("ETag", etag)
		if util.ETagMatches(c.GetHeader("If-None-Match"), etag) {
			c.Status(http.StatusNotModified)
			c.Writer.WriteHeaderNow()
			return
		}
	}

	c.Data(res.Status, "application/json; charset=utf-8", body)
}

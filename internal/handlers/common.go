package handlers

import (
	"errors"
	"strconv"
	"sync"

	"github.com/aibizeyes/admin-gateway/internal/middleware"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request types:
// cronspec accepts what the scheduler accepts.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	var err error
	registerOnce.Do(func() {
		err = v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
			_, parseErr := services.ParseCronSpec(fl.Field().String())
			return parseErr == nil
		})
	})
	return err
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

func sendBinary(c *gin.Context, bin upstream.Binary) {
	response.Attachment(c, bin.Filename, bin.ContentType, bin.Data)
}

// actor names the caller for createdBy/generatedBy fields.
func actor(c *gin.Context) string {
	if name := middleware.GetUsername(c); name != "" {
		return name
	}
	return "anonymous"
}

package handlers

import (
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List GET /api/admin/users
func (h *UserHandler) List(c *gin.Context) {
	var req services.UserListRequest
	if !bindQuery(c, &req) {
		return
	}
	response.Success(c, h.userService.List(c.Request.Context(), &req))
}

// Create POST /api/admin/users
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update PUT /api/admin/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch models.UserPatch
	if !bindJSON(c, &patch) {
		return
	}
	if patch.IsEmpty() {
		response.BadRequest(c, "no fields to update")
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Delete DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.userService.Delete(c.Request.Context(), id)
	response.SuccessMessage(c, "deleted")
}

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	dom "github.com/seowalex/cvwo/internal/domain"
	"github.com/seowalex/cvwo/internal/dto"
	"github.com/seowalex/cvwo/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the caller's own user resource.
type UserHandler struct {
	svc      *service.UserService
	log      *slog.Logger
	basePath string
}

func NewUserHandler(svc *service.UserService, log *slog.Logger, basePath string) *UserHandler {
	return &UserHandler{svc: svc, log: log, basePath: basePath}
}

// Me godoc
// @Summary      Current user and settings
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserDocument
// @Failure      401  {object}  dto.ErrorDocument
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), identity(c).UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeDocument(c, http.StatusOK, dto.UserDocument{Data: h.resource(u)})
}

// UpdateMe godoc
// @Summary      Update name and settings of the current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.UpdateUserDocument  true  "Partial user document"
// @Success      200   {object}  dto.UserDocument
// @Failure      400   {object}  dto.ErrorDocument
// @Failure      401   {object}  dto.ErrorDocument
// @Failure      409   {object}  dto.ErrorDocument
// @Failure      422   {object}  dto.ErrorDocument
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	me := identity(c)
	var req dto.UpdateUserDocument
	if err := bindDocument(c, &req); err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := checkResource(req.Data.Type, dto.UserType, req.Data.ID, strconv.FormatInt(me.UserID, 10)); err != nil {
		writeError(c, h.log, err)
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), me.UserID, req.Data.Attributes.ToDomain())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	writeDocument(c, http.StatusOK, dto.UserDocument{Data: h.resource(u)})
}

func (h *UserHandler) resource(u dom.User) dto.UserResource {
	return dto.UserResource{
		ID:   strconv.FormatInt(u.ID, 10),
		Type: dto.UserType,
		Attributes: dto.UserAttributes{
			Email: u.Email,
			Name:  u.Name,
			Settings: dto.SettingsAttributes{
				HideCompleted: u.Settings.HideCompleted,
				AddToBottom:   u.Settings.AddToBottom,
				Sort:          u.Settings.Sort,
			},
		},
		Links: dto.Links{Self: h.basePath + "/users/me"},
	}
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"user-registration-service/internal/adapter/storage"
	"user-registration-service/internal/usecase/user"
	pkgerrors "user-registration-service/pkg/errors"
	"user-registration-service/pkg/logger"
)

// ProfilePictureField is the multipart field carrying the optional picture
const ProfilePictureField = "profilePicture"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc    user.Usecase
	store storage.AssetStore
	log   *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, store storage.AssetStore, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:    uc,
		store: store,
		log:   log,
	}
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	Contact        string  `json:"contact"`
	ProfilePicture *string `json:"profilePicture"`
}

// UserForm carries the text fields of a create or update request. Gin
// binds it from JSON or form bodies depending on the Content-Type.
type UserForm struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Username string `form:"username" json:"username"`
	Contact  string `form:"contact" json:"contact"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func toResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Username:       u.Username,
		Contact:        u.Contact,
		ProfilePicture: u.ProfilePicture,
	}
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	picture, err := h.storePicture(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	form, err := bindForm(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	req := user.CreateUserRequest{
		Name:           form.Name,
		Email:          form.Email,
		Username:       form.Username,
		Contact:        form.Contact,
		ProfilePicture: picture,
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(resp))
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.uc.ListUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = toResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	picture, err := h.storePicture(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	form, err := bindForm(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	req := user.UpdateUserRequest{
		ID:             c.Param("id"),
		Name:           form.Name,
		Email:          form.Email,
		Username:       form.Username,
		Contact:        form.Contact,
		ProfilePicture: picture,
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// DeleteUser handles DELETE /users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	resp, err := h.uc.DeleteUser(c.Request.Context(), user.DeleteUserRequest{ID: c.Param("id")})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(resp))
}

// bindForm reads the text fields. A request without a body binds to an
// empty form.
func bindForm(c *gin.Context) (UserForm, error) {
	var form UserForm
	if c.Request.ContentLength == 0 && c.ContentType() == binding.MIMEJSON {
		return form, nil
	}
	if err := c.ShouldBind(&form); err != nil {
		return form, pkgerrors.NewValidationError("", "Invalid request body: "+err.Error())
	}
	return form, nil
}

// storePicture saves the uploaded profile picture, if any, and returns its
// stored-object name. A request without the file field yields nil.
func (h *UserHandler) storePicture(c *gin.Context) (*string, error) {
	fh, err := c.FormFile(ProfilePictureField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, pkgerrors.NewUploadError("failed to read profile picture", err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, pkgerrors.NewUploadError("failed to open profile picture", err)
	}
	defer f.Close()

	name, err := h.store.Save(c.Request.Context(), fh.Filename, f)
	if err != nil {
		return nil, pkgerrors.NewUploadError("failed to store profile picture", err)
	}

	logger.WithContext(c.Request.Context(), h.log).Info("profile picture stored",
		zap.String("original", fh.Filename),
		zap.String("stored", name),
		zap.Int64("size", fh.Size),
	)
	return &name, nil
}

// handleError converts usecase errors to the JSON error envelope
func (h *UserHandler) handleError(c *gin.Context, err error) {
	status, code, message := pkgerrors.StatusOf(err)

	log := logger.WithContext(c.Request.Context(), h.log).With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Warn("request rejected")
	}

	c.JSON(status, ErrorResponse{Error: code, Message: message})
}

package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-graph/internal/application"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/pkg/response"
	"github.com/oksasatya/go-ddd-social-graph/pkg/validation"
)

// UserService is the slice of application.Service the user routes need.
type UserService interface {
	Sync(ctx context.Context, externalID string) (*entity.User, bool, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetCurrent(ctx context.Context, externalID string) (*entity.User, error)
	UpdateCurrent(ctx context.Context, externalID string, patch application.ProfilePatch) (*entity.User, error)
	UploadAvatar(ctx context.Context, externalID string, r io.Reader, filename, contentType string) (*entity.User, error)
	ListFollowers(ctx context.Context, username string) ([]entity.UserSummary, error)
	ListFollowing(ctx context.Context, username string) ([]entity.UserSummary, error)
	ToggleFollow(ctx context.Context, externalID, targetID string) (application.FollowResult, error)
}

type UserHandler struct {
	Svc            UserService
	Logger         *logrus.Logger
	AvatarMaxBytes int64
}

func NewUserHandler(svc UserService, logger *logrus.Logger, avatarMaxBytes int64) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, AvatarMaxBytes: avatarMaxBytes}
}

type updateProfileRequest struct {
	Username       *string `json:"username" binding:"omitempty,username"`
	FirstName      *string `json:"first_name" binding:"omitempty,personname"`
	LastName       *string `json:"last_name" binding:"omitempty,personname"`
	ProfilePicture *string `json:"profile_picture" binding:"omitempty,imageurl"`
}

type syncResult struct {
	User    *entity.User `json:"user"`
	Created bool         `json:"created"`
}

func (h *UserHandler) Sync(c *gin.Context) {
	u, created, err := h.Svc.Sync(c.Request.Context(), c.GetString(identityKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if created {
		response.Success(c, http.StatusCreated, syncResult{User: u, Created: true}, "user created", nil)
		return
	}
	response.Success(c, http.StatusOK, syncResult{User: u}, "user already exists", nil)
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	u, err := h.Svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u.Public(), "profile", nil)
}

func (h *UserHandler) GetCurrent(c *gin.Context) {
	u, err := h.Svc.GetCurrent(c.Request.Context(), c.GetString(identityKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile", nil)
}

// UpdateCurrent accepts only the fields in updateProfileRequest; anything
// else in the body, such as followers, is rejected.
func (h *UserHandler) UpdateCurrent(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"payload": "empty body"})
			return
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateCurrent(c.Request.Context(), c.GetString(identityKey), application.ProfilePatch{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "profile updated", nil)
}

// UploadAvatar expects a multipart form with the image in the "avatar" field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	if h.AvatarMaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.AvatarMaxBytes)
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "is required and must fit the size limit"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !isImage(contentType) {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "must be an image"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "unreadable file"})
		return
	}
	defer func(f multipart.File) { _ = f.Close() }(f)

	u, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString(identityKey), f, fh.Filename, contentType)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, u, "avatar updated", nil)
}

func isImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}

func (h *UserHandler) ListFollowers(c *gin.Context) {
	list, err := h.Svc.ListFollowers(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "followers", map[string]any{"count": len(list)})
}

func (h *UserHandler) ListFollowing(c *gin.Context) {
	list, err := h.Svc.ListFollowing(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "following", map[string]any{"count": len(list)})
}

// ToggleFollow is mounted at /users/:username/follow; gin allows one
// wildcard name per segment, so the param holds the target's user id.
func (h *UserHandler) ToggleFollow(c *gin.Context) {
	res, err := h.Svc.ToggleFollow(c.Request.Context(), c.GetString(identityKey), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, res.Message, nil)
}

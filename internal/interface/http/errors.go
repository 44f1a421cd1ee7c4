package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-social-graph/internal/application"
	"github.com/oksasatya/go-ddd-social-graph/pkg/helpers"
	"github.com/oksasatya/go-ddd-social-graph/pkg/response"
)

// identityKey is where the auth middleware stores the caller's provider id.
const identityKey = "identityID"

var errStatus = []struct {
	err    error
	status int
}{
	{application.ErrUnauthenticated, http.StatusUnauthorized},
	{application.ErrUserNotFound, http.StatusNotFound},
	{application.ErrIdentityNotFound, http.StatusNotFound},
	{application.ErrNotificationNotFound, http.StatusNotFound},
	{application.ErrSelfFollow, http.StatusBadRequest},
	{application.ErrInvalidPatch, http.StatusBadRequest},
	{application.ErrUsernameTaken, http.StatusConflict},
	{application.ErrUpstreamIdentity, http.StatusBadGateway},
	{application.ErrInvalidIdentityAttributes, http.StatusBadGateway},
	{application.ErrStorageUnavailable, http.StatusServiceUnavailable},
}

// statusOf falls back to 500. ErrDuplicateUser, a lost creation race, has
// no entry on purpose.
func statusOf(err error) int {
	for _, e := range errStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError maps a service error to its status. Internal errors are logged
// and reported with a generic message.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		response.Error[any](c, status, "internal server error", nil)
		return
	}
	response.Error[any](c, status, err.Error(), nil)
}

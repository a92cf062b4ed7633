package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/larrysaam/scholar-connect-sub004/internal/chathub"
	"github.com/larrysaam/scholar-connect-sub004/internal/directory"
	"github.com/larrysaam/scholar-connect-sub004/internal/reconcile"
	"github.com/larrysaam/scholar-connect-sub004/internal/storage"
	apperrors "github.com/larrysaam/scholar-connect-sub004/pkg/errors"
)

// Handler wires the HTTP surface to the hub, store and reconciliation service.
type Handler struct {
	Hub        *chathub.Hub
	Commander  *chathub.Commander
	Store      storage.Store
	Reconciler *reconcile.Service
	Directory  directory.Resolver
	JWTSecret  []byte
}

func NewHandler(hub *chathub.Hub, commander *chathub.Commander, store storage.Store,
	reconciler *reconcile.Service, dir directory.Resolver, jwtSecret []byte) *Handler {
	return &Handler{
		Hub:        hub,
		Commander:  commander,
		Store:      store,
		Reconciler: reconciler,
		Directory:  dir,
		JWTSecret:  jwtSecret,
	}
}

// abortWithError maps the error taxonomy onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var app *apperrors.AppError
	if errors.As(err, &app) {
		switch app.Code {
		case apperrors.CodeNotFound:
			status = http.StatusNotFound
		case apperrors.CodeUnauthorized:
			status = http.StatusForbidden
		case apperrors.CodeInvalidArgument:
			status = http.StatusBadRequest
		case apperrors.CodeTransient:
			status = http.StatusServiceUnavailable
		case apperrors.CodeConflict:
			status = http.StatusConflict
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

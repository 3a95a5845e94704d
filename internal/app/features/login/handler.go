// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	uierrors "github.com/udyoghq/udyog/internal/app/features/errors"
	"github.com/udyoghq/udyog/internal/app/system/auth"
	"github.com/udyoghq/udyog/internal/app/system/authutil"
	"github.com/udyoghq/udyog/internal/app/system/ratelimit"
	"github.com/udyoghq/udyog/internal/app/system/timeouts"
	"github.com/udyoghq/udyog/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserSource looks up dashboard users for authentication.
type UserSource interface {
	GetByLoginID(ctx context.Context, loginID string) (*models.DashboardUser, error)
}

type Handler struct {
	Users      UserSource
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(users UserSource, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LoginID string `json:"login_id"`
}

// ServeLogin answers GET /login. The dashboard frontend owns the form; this
// endpoint exists so browser redirects from RequireSignedIn land somewhere
// sensible.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	uierrors.JSON(w, http.StatusOK, map[string]string{
		"message": "POST login_id and password to this endpoint to sign in.",
	})
}

// HandleLoginPost authenticates a dashboard user and starts a session.
//
// POST /login with {"login_id":"…","password":"…"}. A wrong login ID and a
// wrong password produce the same message so the endpoint does not confirm
// which accounts exist.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login request failed", err, "Invalid request body.")
		return
	}

	req.LoginID = strings.TrimSpace(req.LoginID)
	if req.LoginID == "" || req.Password == "" {
		uierrors.Message(w, http.StatusUnprocessableEntity, "Login ID and password are required.")
		return
	}

	if allowed, reason := h.Limiter.Check(r, req.LoginID); !allowed {
		h.Log.Warn("login rate limited",
			zap.String("login_id", req.LoginID),
			zap.String("ip", ratelimit.ClientIP(r)))
		uierrors.Message(w, http.StatusTooManyRequests, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByLoginID(ctx, req.LoginID)
	switch err {
	case nil:
		// found, continue
	case mongo.ErrNoDocuments:
		h.Log.Info("login failed: unknown login id", zap.String("login_id", req.LoginID))
		uierrors.Message(w, http.StatusUnauthorized, "Incorrect login ID or password.")
		return
	default:
		h.ErrLog.LogServerError(w, r, "DB find dashboard user", err, "A server error occurred.")
		return
	}

	if !authutil.CheckPassword(req.Password, u.PasswordHash) {
		h.Log.Info("login failed: wrong password", zap.String("login_id", u.LoginID))
		uierrors.Message(w, http.StatusUnauthorized, "Incorrect login ID or password.")
		return
	}

	sessUser := auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.Name,
		LoginID: u.LoginID,
	}
	if err := h.SessionMgr.SignIn(w, r, sessUser); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Unable to create session. Please try again.")
		return
	}

	h.Limiter.ResetLogin(u.LoginID)
	h.Log.Info("user signed in", zap.String("login_id", u.LoginID), zap.String("user_id", u.ID.Hex()))

	uierrors.JSON(w, http.StatusOK, loginResponse{
		ID:      u.ID.Hex(),
		Name:    u.Name,
		LoginID: u.LoginID,
	})
}

package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkolar/stockroom/internal/auth"
	"github.com/dkolar/stockroom/internal/store"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type iamLoginRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Password    string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login handles POST /api/auth/login for global user accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		invalidBody(w)
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		slog.Error("failed to look up user for login", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateUserToken(h.JWTSecret, user)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("user logged in", "email", user.Email)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}

// IAMLogin handles POST /api/auth/iam. A workspace credential is a
// password shared for one workspace; the matching entry decides the role
// carried by the token.
func (h *AuthHandler) IAMLogin(w http.ResponseWriter, r *http.Request) {
	var req iamLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.WorkspaceID == "" || req.Password == "" {
		invalidBody(w)
		return
	}

	entries, err := store.ListIAMByWorkspace(r.Context(), h.DB, req.WorkspaceID)
	if err != nil {
		slog.Error("failed to list iam entries for login", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for i := range entries {
		entry := &entries[i]
		if bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(req.Password)) != nil {
			continue
		}

		token, err := auth.GenerateWorkspaceToken(h.JWTSecret, entry)
		if err != nil {
			slog.Error("failed to generate workspace token", "error", err)
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}

		slog.Info("workspace login", "workspace", entry.WorkspaceID, "role", entry.Role, "tag", entry.Tag)
		jsonResponse(w, http.StatusOK, loginResponse{Token: token})
		return
	}

	slog.Warn("workspace login failed", "workspace", req.WorkspaceID, "remote", r.RemoteAddr)
	jsonError(w, http.StatusUnauthorized, "invalid credentials")
}

// ChangePassword handles PUT /api/auth/password for user tokens.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		invalidBody(w)
		return
	}

	user, err := store.GetUser(r.Context(), h.DB, claims.Subject)
	if err != nil {
		slog.Error("failed to get user for password change", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		jsonError(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	hashStr := string(hash)
	if err := store.UpdateUser(r.Context(), h.DB, user.ID, store.UserUpdate{PasswordHash: &hashStr}); err != nil {
		slog.Error("failed to update password", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("user changed own password", "email", user.Email)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Logout handles POST /api/auth/logout by revoking the token's JTI.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

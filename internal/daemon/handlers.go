package daemon

import (
	"errors"
	"net/http"
	"strings"

	"prepai/internal/api"
	"prepai/internal/auth"
	"prepai/internal/interviews"
	"prepai/internal/logging"
	"prepai/internal/services"
)

func (s *apiServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.fail(w, r, err, "signup", "")
		return
	}
	user, err := s.store.CreateUser(r.Context(), req.Name, req.Email, hash)
	if err != nil {
		s.fail(w, r, err, "signup", "User already exists")
		return
	}
	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.fail(w, r, err, "signup", "")
		return
	}
	s.log().Info("user registered", logging.String(logging.FieldUserID, user.ID))
	s.writeJSON(w, http.StatusCreated, api.TokenResponse{Token: token})
}

func (s *apiServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !s.decode(w, r, &req) {
		return
	}
	user, err := s.store.UserByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, interviews.ErrUserNotFound) {
			s.writeError(w, http.StatusBadRequest, "Invalid Credentials")
			return
		}
		s.fail(w, r, err, "login", "")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.writeError(w, http.StatusBadRequest, "Invalid Credentials")
		return
	}
	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		s.fail(w, r, err, "login", "")
		return
	}
	s.writeJSON(w, http.StatusOK, api.TokenResponse{Token: token})
}

func (s *apiServer) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := services.UserIDFromContext(r.Context())
	user, err := s.store.UserByID(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "me", "User not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromUser(*user))
}

func (s *apiServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	if !s.decode(w, r, &req) {
		return
	}
	userID, _ := services.UserIDFromContext(r.Context())
	user, err := s.store.UpdateUser(r.Context(), userID, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email))
	if err != nil {
		msg := "User not found"
		if errors.Is(err, services.ErrConflict) {
			msg = "Email already in use"
		}
		s.fail(w, r, err, "update_profile", msg)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromUser(*user))
}

func (s *apiServer) handleSaveInterview(w http.ResponseWriter, r *http.Request) {
	var req api.SaveRequest
	if !s.decode(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		s.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Duration < 0 {
		s.writeError(w, http.StatusBadRequest, "duration must not be negative")
		return
	}
	if err := s.authorizeSubject(r, req.UserID); err != nil {
		s.fail(w, r, err, "save_interview", authMessage(err))
		return
	}

	rec := req.ToRecord()
	rec.Scores.AudioConfidence = applyOffset(rec.Scores.AudioConfidence, s.audioOffset)

	ctx := services.WithUserID(r.Context(), req.UserID)
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		s.fail(w, r.WithContext(ctx), err, "save_interview", "")
		return
	}
	logging.WithContext(ctx, s.log()).Info("interview saved",
		logging.Int64("record_id", saved.ID),
		logging.Int("duration", saved.Duration),
	)
	s.writeJSON(w, http.StatusCreated, api.FromRecord(*saved))
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("userId"))
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if err := s.authorizeSubject(r, userID); err != nil {
		s.fail(w, r, err, "history", authMessage(err))
		return
	}
	records, err := s.store.History(r.Context(), userID)
	if err != nil {
		s.fail(w, r, err, "history", "")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromRecords(records))
}

func authMessage(err error) string {
	if errors.Is(err, services.ErrForbidden) {
		return "Not authorized for this user"
	}
	return "No token, authorization denied"
}

// applyOffset shifts an audio confidence by offset, clamped to 0-100.
func applyOffset(value float64, offset int) float64 {
	if offset == 0 {
		return value
	}
	return min(max(value+float64(offset), 0), 100)
}

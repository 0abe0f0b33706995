package handlers

import (
	"net/http"

	"dragnotes/models"
	"dragnotes/service"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type signupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string         `json:"message"`
	Token     string         `json:"token"`
	ExpiresIn int64          `json:"expiresIn"`
	UserID    string         `json:"userId"`
	User      models.Profile `json:"user"`
}

type profileResponse struct {
	Message string         `json:"message"`
	User    models.Profile `json:"user"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	f := failure{internal: "Creating user failed."}

	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, f)
		return
	}

	user, err := h.auth.Signup(r.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		writeError(w, r, err, f)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		Message: "User created successfully",
		UserID:  user.ID,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	f := failure{internal: "Login failed."}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err, f)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, f)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		Token:     res.Token,
		ExpiresIn: res.ExpiresIn,
		UserID:    res.User.ID,
		User:      res.User.Profile(),
	})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Message: "Profile fetched successfully",
		User:    h.auth.Profile(r.Context(), id),
	})
}

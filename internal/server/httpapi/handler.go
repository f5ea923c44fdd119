package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/services"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// token is the OAuth2 password-flow endpoint: form fields username and
// password, where username may also be the email.
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid form body")
		return
	}
	login := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	if login == "" || password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), login, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeUnauthorized(w, "Incorrect email/username or password")
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Logged in", "login", login)
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := s.users.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeDetail(w, http.StatusConflict, "User with given email or username already exists")
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", u.Username)
	writeJSON(w, http.StatusCreated, newUserResponse(u))
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, newUserResponse(u))
}

func (s *Server) deleteMe(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	if err := s.users.Delete(r.Context(), u.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "Account deleted", "user_id", u.ID)
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: true})
}

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	list, err := s.conversations.List(r.Context(), u.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]conversationSummary, 0, len(list))
	for i := range list {
		out = append(out, newSummary(&list[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createConversation(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	var req createConversationRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.conversations.Create(r.Context(), u.ID, req.Title, req.SessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newConversationResponse(c))
}

func (s *Server) getConversation(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	c, err := s.conversations.Get(r.Context(), u.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newConversationResponse(c))
}

func (s *Server) deleteConversation(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	id := r.PathValue("id")
	if err := s.conversations.Delete(r.Context(), u.ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: true, ConversationID: id})
}

func (s *Server) updateTitle(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	var req updateTitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.conversations.UpdateTitle(r.Context(), u.ID, r.PathValue("id"), req.Title)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newConversationResponse(c))
}

func (s *Server) appendMessage(w http.ResponseWriter, r *http.Request) {
	u := userFromContext(r.Context())
	var req appendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ConversationID) == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "conversation_id is required")
		return
	}
	if err := s.conversations.Append(r.Context(), u.ID, req.ConversationID, req.Message.toMessage()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	var req services.QueryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.logger.Debug(r.Context(), "query", "has_state", len(req.PreviousState) > 0)
	res, err := s.recommender.Query(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/huddlehq/huddle"
)

// type for context.WithValue keys
type ctxKey string

const userKey = ctxKey("user_info")

// cookieName carries the session token between requests.
const cookieName = "huddle-token"

type serverError struct {
	Error   error
	Message string
	Status  int
}

// errHandler provides a less verbose way to handle errors
type errHandler func(http.ResponseWriter, *http.Request) *serverError

func (fn errHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		logrus.Errorf("%v", err.Error)
		http.Error(w, err.Message, err.Status)
	}
}

// fail maps a service error onto an HTTP status: validation
// failures are 400, authorization failures 403, the rest 500.
func fail(err error, fallback string) *serverError {
	switch {
	case huddle.IsInputError(err):
		return &serverError{err, err.Error(), http.StatusBadRequest}
	case huddle.IsAccessError(err):
		return &serverError{err, err.Error(), http.StatusForbidden}
	default:
		return &serverError{err, fallback, http.StatusInternalServerError}
	}
}

type server struct {
	router *mux.Router

	// services
	Auth   huddle.Authenticater
	Member huddle.Membership
	Msg    huddle.Messenger
	Sched  huddle.Scheduler
	Notify huddle.Notifier
	Get    huddle.Getter
	Admin  huddle.Admin
}

// NewServer receives all services needed to provide functionality
// then uses those services to spin up an HTTP server.
func NewServer(auth huddle.Authenticater, member huddle.Membership, msg huddle.Messenger,
	sched huddle.Scheduler, notify huddle.Notifier, get huddle.Getter, admin huddle.Admin) *server {

	s := &server{
		Auth:   auth,
		Member: member,
		Msg:    msg,
		Sched:  sched,
		Notify: notify,
		Get:    get,
		Admin:  admin,
	}

	router := mux.NewRouter().StrictSlash(true)
	router.Handle("/register", s.Register()).Methods("POST")
	router.Handle("/login", s.Login()).Methods("POST")

	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.Handle("/logout", s.Logout()).Methods("POST")

	apiRouter.Handle("/channel", s.CreateChannel()).Methods("POST")
	apiRouter.Handle("/channels", s.GetChannels()).Methods("GET")
	apiRouter.Handle("/channels/all", s.GetAllChannels()).Methods("GET")
	apiRouter.Handle("/channel/{id}", s.GetChannelDetails()).Methods("GET")
	apiRouter.Handle("/channel/{id}/invite", s.InviteToChannel()).Methods("POST")
	apiRouter.Handle("/channel/{id}/join", s.JoinChannel()).Methods("POST")
	apiRouter.Handle("/channel/{id}/leave", s.LeaveChannel()).Methods("POST")
	apiRouter.Handle("/channel/{id}/addowner", s.AddChannelOwner()).Methods("POST")
	apiRouter.Handle("/channel/{id}/removeowner", s.RemoveChannelOwner()).Methods("POST")
	apiRouter.Handle("/channel/{id}/messages", s.GetChannelMessages()).Methods("GET")
	apiRouter.Handle("/channel/{id}/message", s.SendToChannel()).Methods("POST")
	apiRouter.Handle("/channel/{id}/sendlater", s.SendLaterToChannel()).Methods("POST")

	apiRouter.Handle("/channel/{id}/standup/start", s.StartStandup()).Methods("POST")
	apiRouter.Handle("/channel/{id}/standup/send", s.SendStandup()).Methods("POST")
	apiRouter.Handle("/channel/{id}/standup", s.StandupActive()).Methods("GET")

	apiRouter.Handle("/dm", s.CreateDM()).Methods("POST")
	apiRouter.Handle("/dms", s.GetDMs()).Methods("GET")
	apiRouter.Handle("/dm/{id}", s.GetDMDetails()).Methods("GET")
	apiRouter.Handle("/dm/{id}", s.RemoveDM()).Methods("DELETE")
	apiRouter.Handle("/dm/{id}/leave", s.LeaveDM()).Methods("POST")
	apiRouter.Handle("/dm/{id}/messages", s.GetDMMessages()).Methods("GET")
	apiRouter.Handle("/dm/{id}/message", s.SendToDM()).Methods("POST")
	apiRouter.Handle("/dm/{id}/sendlater", s.SendLaterToDM()).Methods("POST")

	apiRouter.Handle("/message/{id}", s.EditMessage()).Methods("PUT")
	apiRouter.Handle("/message/{id}", s.RemoveMessage()).Methods("DELETE")
	apiRouter.Handle("/message/{id}/react", s.ReactToMessage()).Methods("POST")
	apiRouter.Handle("/message/{id}/unreact", s.UnreactToMessage()).Methods("POST")
	apiRouter.Handle("/message/{id}/pin", s.PinMessage()).Methods("POST")
	apiRouter.Handle("/message/{id}/unpin", s.UnpinMessage()).Methods("POST")
	apiRouter.Handle("/message/{id}/share", s.ShareMessage()).Methods("POST")

	apiRouter.Handle("/notifications", s.GetNotifications()).Methods("GET")
	apiRouter.Handle("/search", s.SearchMessages()).Methods("GET")

	apiRouter.Handle("/users", s.GetUsers()).Methods("GET")
	apiRouter.Handle("/user/{id}", s.GetProfile()).Methods("GET")
	apiRouter.Handle("/me/stats", s.GetStats()).Methods("GET")

	apiRouter.Handle("/admin/user/{id}", s.RemoveUser()).Methods("DELETE")
	apiRouter.Handle("/admin/user/{id}/permission", s.SetPermission()).Methods("POST")

	apiRouter.Use(s.requireAuth) // must be authenticated to use the api endpoints

	s.router = router
	return s
}

// Serve returns the handler to be used in http.ListenAndServe.
func (s *server) Serve() http.Handler {
	n := negroni.Classic()
	n.UseHandler(s.router)
	return n
}

// Register creates a new user and hands back a session token.
func (s *server) Register() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var payload SignupPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		token, user, err := s.Auth.Register(payload.Email, payload.Password, payload.DisplayName)
		if err != nil {
			return fail(err, "Unable to register")
		}

		setTokenCookie(w, token)
		json.NewEncoder(w).Encode(SessionResponse{Token: token, UserID: user.ID})
		return nil
	}
}

// Login checks credentials and hands back a session token.
func (s *server) Login() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		var payload LoginPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		token, user, err := s.Auth.Login(payload.Email, payload.Password)
		if err != nil {
			return fail(err, "Unable to log in")
		}

		setTokenCookie(w, token)
		json.NewEncoder(w).Encode(SessionResponse{Token: token, UserID: user.ID})
		return nil
	}
}

// Logout revokes the session carried by the request's token.
func (s *server) Logout() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		token, err := requestToken(r)
		if err != nil {
			return &serverError{err, "No token on request", http.StatusUnauthorized}
		}

		if err := s.Auth.Logout(token); err != nil {
			return fail(err, "Unable to log out")
		}

		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", MaxAge: -1})
		w.WriteHeader(http.StatusOK)
		return nil
	}
}

// requireAuth resolves the request token to a user and stores it on
// the context for handlers downstream.
func (s *server) requireAuth(f http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := requestToken(r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			logrus.Error("Error with token", err)
			return
		}

		user, err := s.Auth.Verify(token)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			logrus.Error(err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, *user)
		f.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentUser pulls the verified user off the request context.
func currentUser(r *http.Request) (huddle.User, error) {
	user, ok := r.Context().Value(userKey).(huddle.User)
	if !ok {
		return huddle.User{}, errors.New("Unable to decode user info from context")
	}
	return user, nil
}

// requestToken accepts the session token from the cookie or, for
// non-browser clients, a bearer Authorization header.
func requestToken(r *http.Request) (string, error) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], nil
	}
	return "", errors.New("no session token on request")
}

func setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
	})
}

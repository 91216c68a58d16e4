package server

import (
	"encoding/json"
	"net/http"
)

func (s *server) StartStandup() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		var payload StandupPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		finish, err := s.Sched.StandupStart(user.ID, channelID, payload.Duration)
		if err != nil {
			return fail(err, "Unable to start standup")
		}

		json.NewEncoder(w).Encode(FinishResponse{FinishAt: finish})
		return nil
	}
}

func (s *server) SendStandup() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		var payload BodyPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Sched.StandupSend(user.ID, channelID, payload.Body); err != nil {
			return fail(err, "Unable to send to standup")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) StandupActive() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		status, err := s.Sched.StandupActive(user.ID, channelID)
		if err != nil {
			return fail(err, "Unable to get standup status")
		}

		json.NewEncoder(w).Encode(status)
		return nil
	}
}

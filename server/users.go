package server

import (
	"encoding/json"
	"net/http"

	"github.com/huddlehq/huddle"
)

func (s *server) GetNotifications() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		notifications, err := s.Notify.Notifications(user.ID)
		if err != nil {
			return fail(err, "Unable to get notifications")
		}

		json.NewEncoder(w).Encode(notifications)
		return nil
	}
}

func (s *server) GetUsers() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		users, err := s.Get.Users(user.ID)
		if err != nil {
			return fail(err, "Unable to get users")
		}

		json.NewEncoder(w).Encode(users)
		return nil
	}
}

func (s *server) GetProfile() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		targetID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse user id", http.StatusBadRequest}
		}

		profile, err := s.Get.Profile(user.ID, targetID)
		if err != nil {
			return fail(err, "Unable to get profile")
		}

		json.NewEncoder(w).Encode(profile)
		return nil
	}
}

func (s *server) GetStats() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		stats, err := s.Get.UserStats(user.ID)
		if err != nil {
			return fail(err, "Unable to get stats")
		}

		json.NewEncoder(w).Encode(stats)
		return nil
	}
}

func (s *server) RemoveUser() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		targetID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse user id", http.StatusBadRequest}
		}

		if err := s.Admin.RemoveUser(user.ID, targetID); err != nil {
			return fail(err, "Unable to remove user")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) SetPermission() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		targetID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse user id", http.StatusBadRequest}
		}

		var payload PermissionPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Admin.SetPermission(user.ID, targetID, huddle.Permission(payload.Level)); err != nil {
			return fail(err, "Unable to change permission")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

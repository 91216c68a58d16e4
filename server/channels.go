package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "Unable to parse id from request path")
	}
	return id, nil
}

func (s *server) CreateChannel() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		var payload ChannelPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		channel, err := s.Member.CreateChannel(user.ID, payload.Name, payload.Public)
		if err != nil {
			return fail(err, "Unable to create channel")
		}

		json.NewEncoder(w).Encode(channel)
		return nil
	}
}

func (s *server) GetChannels() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		channels, err := s.Member.Channels(user.ID)
		if err != nil {
			return fail(err, "Unable to get channels")
		}

		json.NewEncoder(w).Encode(channels)
		return nil
	}
}

func (s *server) GetAllChannels() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		channels, err := s.Member.AllChannels(user.ID)
		if err != nil {
			return fail(err, "Unable to get channels")
		}

		json.NewEncoder(w).Encode(channels)
		return nil
	}
}

func (s *server) GetChannelDetails() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		details, err := s.Member.ChannelDetails(user.ID, channelID)
		if err != nil {
			return fail(err, "Unable to get channel details")
		}

		json.NewEncoder(w).Encode(details)
		return nil
	}
}

func (s *server) InviteToChannel() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		var payload TargetUserPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Member.Invite(user.ID, channelID, payload.UserID); err != nil {
			return fail(err, "Unable to invite user")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) JoinChannel() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		if err := s.Member.Join(user.ID, channelID); err != nil {
			return fail(err, "Unable to join channel")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) LeaveChannel() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		if err := s.Member.Leave(user.ID, channelID); err != nil {
			return fail(err, "Unable to leave channel")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) AddChannelOwner() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		var payload TargetUserPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Member.AddOwner(user.ID, channelID, payload.UserID); err != nil {
			return fail(err, "Unable to add owner")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) RemoveChannelOwner() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		var payload TargetUserPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Member.RemoveOwner(user.ID, channelID, payload.UserID); err != nil {
			return fail(err, "Unable to remove owner")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) CreateDM() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		var payload DMPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		dm, err := s.Member.CreateDM(user.ID, payload.MemberIDs)
		if err != nil {
			return fail(err, "Unable to create dm")
		}

		json.NewEncoder(w).Encode(dm)
		return nil
	}
}

func (s *server) GetDMs() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		dms, err := s.Member.DMs(user.ID)
		if err != nil {
			return fail(err, "Unable to get dms")
		}

		json.NewEncoder(w).Encode(dms)
		return nil
	}
}

func (s *server) GetDMDetails() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		dmID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse dm id", http.StatusBadRequest}
		}

		details, err := s.Member.DMDetails(user.ID, dmID)
		if err != nil {
			return fail(err, "Unable to get dm details")
		}

		json.NewEncoder(w).Encode(details)
		return nil
	}
}

func (s *server) LeaveDM() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		dmID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse dm id", http.StatusBadRequest}
		}

		if err := s.Member.LeaveDM(user.ID, dmID); err != nil {
			return fail(err, "Unable to leave dm")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) RemoveDM() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		dmID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse dm id", http.StatusBadRequest}
		}

		if err := s.Member.RemoveDM(user.ID, dmID); err != nil {
			return fail(err, "Unable to remove dm")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

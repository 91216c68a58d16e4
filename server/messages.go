package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// startParam parses the optional ?start= pagination parameter.
func startParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("start")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *server) SendToChannel() errHandler {
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

		id, err := s.Msg.Send(user.ID, channelID, payload.Body)
		if err != nil {
			return fail(err, "Unable to send message")
		}

		json.NewEncoder(w).Encode(MessageIDResponse{MessageID: id})
		return nil
	}
}

func (s *server) SendToDM() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		dmID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse dm id", http.StatusBadRequest}
		}

		var payload BodyPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		id, err := s.Msg.SendDM(user.ID, dmID, payload.Body)
		if err != nil {
			return fail(err, "Unable to send message")
		}

		json.NewEncoder(w).Encode(MessageIDResponse{MessageID: id})
		return nil
	}
}

func (s *server) SendLaterToChannel() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}

		var payload SendLaterPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		id, err := s.Sched.SendLater(user.ID, channelID, payload.Body, payload.FireAt)
		if err != nil {
			return fail(err, "Unable to schedule message")
		}

		json.NewEncoder(w).Encode(MessageIDResponse{MessageID: id})
		return nil
	}
}

func (s *server) SendLaterToDM() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		dmID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse dm id", http.StatusBadRequest}
		}

		var payload SendLaterPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		id, err := s.Sched.SendLaterDM(user.ID, dmID, payload.Body, payload.FireAt)
		if err != nil {
			return fail(err, "Unable to schedule message")
		}

		json.NewEncoder(w).Encode(MessageIDResponse{MessageID: id})
		return nil
	}
}

func (s *server) GetChannelMessages() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		channelID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse channel id", http.StatusBadRequest}
		}
		start, err := startParam(r)
		if err != nil {
			return &serverError{err, "Unable to parse start", http.StatusBadRequest}
		}

		page, err := s.Msg.ListChannel(user.ID, channelID, start)
		if err != nil {
			return fail(err, "Unable to get messages")
		}

		json.NewEncoder(w).Encode(page)
		return nil
	}
}

func (s *server) GetDMMessages() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		dmID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse dm id", http.StatusBadRequest}
		}
		start, err := startParam(r)
		if err != nil {
			return &serverError{err, "Unable to parse start", http.StatusBadRequest}
		}

		page, err := s.Msg.ListDM(user.ID, dmID, start)
		if err != nil {
			return fail(err, "Unable to get messages")
		}

		json.NewEncoder(w).Encode(page)
		return nil
	}
}

func (s *server) EditMessage() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		messageID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse message id", http.StatusBadRequest}
		}

		var payload BodyPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Msg.Edit(user.ID, messageID, payload.Body); err != nil {
			return fail(err, "Unable to edit message")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) RemoveMessage() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		messageID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse message id", http.StatusBadRequest}
		}

		if err := s.Msg.Remove(user.ID, messageID); err != nil {
			return fail(err, "Unable to remove message")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) ReactToMessage() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		messageID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse message id", http.StatusBadRequest}
		}

		var payload ReactPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Msg.React(user.ID, messageID, payload.Kind); err != nil {
			return fail(err, "Unable to react")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) UnreactToMessage() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		messageID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse message id", http.StatusBadRequest}
		}

		var payload ReactPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		if err := s.Msg.Unreact(user.ID, messageID, payload.Kind); err != nil {
			return fail(err, "Unable to unreact")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) PinMessage() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		messageID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse message id", http.StatusBadRequest}
		}

		if err := s.Msg.Pin(user.ID, messageID); err != nil {
			return fail(err, "Unable to pin message")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) UnpinMessage() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		messageID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse message id", http.StatusBadRequest}
		}

		if err := s.Msg.Unpin(user.ID, messageID); err != nil {
			return fail(err, "Unable to unpin message")
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

func (s *server) ShareMessage() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}
		messageID, err := pathID(r)
		if err != nil {
			return &serverError{err, "Unable to parse message id", http.StatusBadRequest}
		}

		var payload SharePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return &serverError{err, "Unable to decode payload", http.StatusBadRequest}
		}

		id, err := s.Msg.Share(user.ID, messageID, payload.Annotation, payload.ChannelID, payload.DMID)
		if err != nil {
			return fail(err, "Unable to share message")
		}

		json.NewEncoder(w).Encode(MessageIDResponse{MessageID: id})
		return nil
	}
}

func (s *server) SearchMessages() errHandler {
	return func(w http.ResponseWriter, r *http.Request) *serverError {
		user, err := currentUser(r)
		if err != nil {
			return &serverError{err, "Unable to decode current user", http.StatusBadRequest}
		}

		matches, err := s.Msg.Search(user.ID, r.URL.Query().Get("query"))
		if err != nil {
			return fail(err, "Unable to search messages")
		}

		json.NewEncoder(w).Encode(matches)
		return nil
	}
}

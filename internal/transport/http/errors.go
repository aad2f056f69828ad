package http

import (
	"encoding/json"
	"net/http"

	"github.com/GatherFlow/EventService/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeInvalidID           = "invalid_id"
	codeTitleRequired       = "title_required"
	codeDescriptionRequired = "description_required"
	codeInvalidFormat       = "invalid_format"
	codeInvalidDuration     = "invalid_duration"
	codeInvalidPrice        = "invalid_price"
	codeInvalidAmount       = "invalid_amount"
	codeUserIDRequired      = "user_id_required"
	codeEmptyPatch          = "empty_patch"
	codeEventNotFound       = "event_not_found"
	codeEventTicketNotFound = "event_ticket_not_found"
	codeTicketNotFound      = "ticket_not_found"
	codeAlreadyLiked        = "already_liked"
	codeLikeNotFound        = "like_not_found"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps a service-layer error onto the wire format.
// Unknown errors become an opaque 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrInvalidID:
		writeError(w, http.StatusBadRequest, codeInvalidID, err.Error())
	case domain.ErrTitleRequired:
		writeError(w, http.StatusBadRequest, codeTitleRequired, err.Error())
	case domain.ErrDescriptionRequired:
		writeError(w, http.StatusBadRequest, codeDescriptionRequired, err.Error())
	case domain.ErrInvalidFormat:
		writeError(w, http.StatusBadRequest, codeInvalidFormat, err.Error())
	case domain.ErrInvalidDuration:
		writeError(w, http.StatusBadRequest, codeInvalidDuration, err.Error())
	case domain.ErrInvalidPrice:
		writeError(w, http.StatusBadRequest, codeInvalidPrice, err.Error())
	case domain.ErrInvalidAmount:
		writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case domain.ErrUserIDRequired:
		writeError(w, http.StatusBadRequest, codeUserIDRequired, err.Error())
	case domain.ErrEmptyPatch:
		writeError(w, http.StatusBadRequest, codeEmptyPatch, err.Error())
	case domain.ErrEventNotFound:
		writeError(w, http.StatusNotFound, codeEventNotFound, err.Error())
	case domain.ErrEventTicketNotFound:
		writeError(w, http.StatusNotFound, codeEventTicketNotFound, err.Error())
	case domain.ErrTicketNotFound:
		writeError(w, http.StatusNotFound, codeTicketNotFound, err.Error())
	case domain.ErrLikeNotFound:
		writeError(w, http.StatusNotFound, codeLikeNotFound, err.Error())
	case domain.ErrAlreadyLiked:
		writeError(w, http.StatusConflict, codeAlreadyLiked, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

package rest

import (
	"encoding/json"
	"net/http"
)

// Public messages. Unknown users and wrong passwords share one message.
const (
	msgInvalidCredentials = "invalid username or password"
	msgDuplicateIdentity  = "username or email is already taken"
	msgInternal           = "internal error"
	msgBadRequest         = "malformed request body"
	msgInvalidPassword    = "password must be 1 to 72 bytes long"
	msgMissingToken       = "missing token"
	msgTokenExpired       = "token expired"
	msgInvalidToken       = "invalid token"
	protectedMessage      = "This is a protected endpoint!"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

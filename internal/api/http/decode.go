package http

import (
	"encoding/json"
	"net/http"
)

const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
		return false
	}
	return true
}

// mustAccount is used by handlers behind member-level routes. A missing
// account means the route was registered without a name.
func mustAccount(w http.ResponseWriter, r *http.Request) (accountID string, ok bool) {
	acc, ok := AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthenticated, "unauthenticated")
		return "", false
	}
	return acc.ID, true
}

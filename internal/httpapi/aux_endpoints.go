package httpapi

import "net/http"

type healthResponse struct {
	OK string `json:"ok"`
}

// health reports liveness. It takes no input and never fails.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	toJSON(w, http.StatusOK, healthResponse{OK: "ok"})
}

package handler

import "net/http"

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running and the
// database answers a ping. A failing ping degrades the response to 503 so
// load balancers stop routing here before requests start erroring.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:   "degraded",
				Database: "unreachable",
			})
			return
		}
		resp.Database = "ok"
	}
	writeJSON(w, http.StatusOK, resp)
}

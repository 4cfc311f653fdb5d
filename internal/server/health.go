package server

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

type healthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	MemUsedMB     float64 `json:"mem_used_mb"`
	MemPercent    float64 `json:"mem_percent"`
	Time          string  `json:"time"`
}

// handleHealth reports process uptime and host memory pressure.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: s.service.Uptime().Seconds(),
		Time:          time.Now().UTC().Format(time.RFC3339),
	}

	if memStat, err := mem.VirtualMemory(); err == nil {
		resp.MemUsedMB = float64(memStat.Used) / 1024.0 / 1024.0
		resp.MemPercent = memStat.UsedPercent
	} else {
		s.log.Warn().Err(err).Msg("Failed to read memory stats")
	}

	s.writeJSON(w, http.StatusOK, resp)
}

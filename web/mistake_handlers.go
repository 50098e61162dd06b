package web

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// handleGetMistakes 获取失误目录
func (s *Server) handleGetMistakes(w http.ResponseWriter, r *http.Request) {
	mistakes, err := s.mistakeStore.List()
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch mistakes")
		respondError(w, http.StatusInternalServerError, "Failed to fetch mistakes")
		return
	}

	respondJSON(w, http.StatusOK, mistakes)
}

// handleGetMistakeStats 获取失误频率统计(读取前先做孤儿修复)
func (s *Server) handleGetMistakeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.mistakeStore.Stats()
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch mistake stats")
		respondError(w, http.StatusInternalServerError, "Failed to fetch mistake stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

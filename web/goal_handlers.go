package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"riftlog/database"
	"riftlog/services"
)

// goalPayload 目标创建/更新请求体。
// MatchIDs 可选，提交时把目标关联到对局(重复链接为空操作)。
type goalPayload struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	MatchIDs    []int64    `json:"matchIds"`
}

func (p *goalPayload) validate() string {
	if strings.TrimSpace(p.Title) == "" {
		return "Title is required"
	}
	if p.Status != "" && !database.ValidGoalStatus(p.Status) {
		return `Status must be one of "active", "completed", "failed"`
	}
	return ""
}

func (p *goalPayload) toGoal(userID int64) *database.Goal {
	return &database.Goal{
		UserID:      userID,
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Status:      p.Status,
		CompletedAt: p.CompletedAt,
	}
}

// handleGetGoals 获取目标列表，支持 status 过滤
func (s *Server) handleGetGoals(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !database.ValidGoalStatus(status) {
		respondError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	goals, err := s.goalStore.FindAll(database.DefaultUserID, status)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch goals")
		respondError(w, http.StatusInternalServerError, "Failed to fetch goals")
		return
	}

	respondJSON(w, http.StatusOK, goals)
}

// handleGetGoal 获取单个目标
func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	goal, err := s.goalStore.FindByID(id, database.DefaultUserID)
	if err == services.ErrNotFound {
		respondError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch goal")
		respondError(w, http.StatusInternalServerError, "Failed to fetch goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// handleCreateGoal 创建目标，状态缺省为 active
func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	goalID, err := s.goalStore.Create(payload.toGoal(database.DefaultUserID))
	if err != nil {
		logrus.WithError(err).Error("Failed to create goal")
		respondError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}

	if err := s.linkGoalMatches(goalID, payload.MatchIDs); err != nil {
		logrus.WithError(err).Error("Failed to link goal matches")
		respondError(w, http.StatusInternalServerError, "Failed to link goal matches")
		return
	}

	goal, err := s.goalStore.FindByID(goalID, database.DefaultUserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch created goal")
		respondError(w, http.StatusInternalServerError, "Failed to fetch created goal")
		return
	}

	respondJSON(w, http.StatusCreated, goal)
}

// handleUpdateGoal 更新目标；状态转为 completed 时由存储层自动盖完成时间
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var payload goalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if payload.Status == "" {
		payload.Status = database.GoalActive
	}

	err := s.goalStore.Update(id, payload.toGoal(database.DefaultUserID), database.DefaultUserID)
	if err == services.ErrNotFound {
		respondError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to update goal")
		respondError(w, http.StatusInternalServerError, "Failed to update goal")
		return
	}

	if err := s.linkGoalMatches(id, payload.MatchIDs); err != nil {
		logrus.WithError(err).Error("Failed to link goal matches")
		respondError(w, http.StatusInternalServerError, "Failed to link goal matches")
		return
	}

	goal, err := s.goalStore.FindByID(id, database.DefaultUserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch updated goal")
		respondError(w, http.StatusInternalServerError, "Failed to fetch updated goal")
		return
	}

	respondJSON(w, http.StatusOK, goal)
}

// handleDeleteGoal 删除目标及其关联行
func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	err := s.goalStore.Delete(id, database.DefaultUserID)
	if err == services.ErrNotFound {
		respondError(w, http.StatusNotFound, "Goal not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to delete goal")
		respondError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) linkGoalMatches(goalID int64, matchIDs []int64) error {
	for _, matchID := range matchIDs {
		if err := s.goalStore.LinkMatch(goalID, matchID); err != nil {
			return err
		}
	}
	return nil
}

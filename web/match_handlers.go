package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"riftlog/database"
	"riftlog/services"
)

// matchPayload 对局创建/更新请求体。
// MistakeIDs 为指针以区分"未提交"和"提交了空集合"。
type matchPayload struct {
	Champion     string   `json:"champion"`
	Role         string   `json:"role"`
	Result       string   `json:"result"`
	Kills        int      `json:"kills"`
	Deaths       int      `json:"deaths"`
	Assists      int      `json:"assists"`
	CSPerMin     float64  `json:"cs_per_min"`
	GameDuration int      `json:"game_duration"`
	Notes        *string  `json:"notes"`
	MistakeIDs   *[]int64 `json:"mistakeIds"`
}

// validate 必填字段与枚举检查，在写入任何行之前执行
func (p *matchPayload) validate() string {
	if strings.TrimSpace(p.Champion) == "" {
		return "Champion is required"
	}
	if strings.TrimSpace(p.Role) == "" {
		return "Role is required"
	}
	if !database.ValidRole(p.Role) {
		return "Role must be one of: " + strings.Join(database.Roles, ", ")
	}
	if !database.ValidResult(p.Result) {
		return `Result must be either "win" or "loss"`
	}
	return ""
}

func (p *matchPayload) toMatch(userID int64) *database.Match {
	return &database.Match{
		UserID:       userID,
		Champion:     strings.TrimSpace(p.Champion),
		Role:         p.Role,
		Result:       p.Result,
		Kills:        p.Kills,
		Deaths:       p.Deaths,
		Assists:      p.Assists,
		CSPerMin:     p.CSPerMin,
		GameDuration: p.GameDuration,
		Notes:        p.Notes,
	}
}

// handleGetMatches 获取对局列表，支持 limit/offset 分页
func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))
	if offset < 0 {
		offset = 0
	}

	matches, err := s.matchStore.FindAll(database.DefaultUserID, limit, offset)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch matches")
		respondError(w, http.StatusInternalServerError, "Failed to fetch matches")
		return
	}

	respondJSON(w, http.StatusOK, matches)
}

// handleGetMatch 获取单场对局
func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	match, err := s.matchStore.FindByID(id, database.DefaultUserID)
	if err == services.ErrNotFound {
		respondError(w, http.StatusNotFound, "Match not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch match")
		respondError(w, http.StatusInternalServerError, "Failed to fetch match")
		return
	}

	respondJSON(w, http.StatusOK, match)
}

// handleCreateMatch 创建对局，可选地关联失误标签
func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var payload matchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	matchID, err := s.matchStore.Create(payload.toMatch(database.DefaultUserID))
	if err != nil {
		logrus.WithError(err).Error("Failed to create match")
		// 必填字段的约束冲突降级为客户端错误
		if strings.Contains(err.Error(), "NOT NULL") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create match")
		return
	}

	if payload.MistakeIDs != nil {
		if err := s.matchStore.ReplaceMistakes(matchID, *payload.MistakeIDs); err != nil {
			logrus.WithError(err).Error("Failed to link mistakes")
			respondError(w, http.StatusInternalServerError, "Failed to link mistakes")
			return
		}
	}

	match, err := s.matchStore.FindByID(matchID, database.DefaultUserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch created match")
		respondError(w, http.StatusInternalServerError, "Failed to fetch created match")
		return
	}

	respondJSON(w, http.StatusCreated, match)
}

// handleUpdateMatch 整行更新对局；提交了 mistakeIds 时全量替换关联
func (s *Server) handleUpdateMatch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	var payload matchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := payload.validate(); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	err := s.matchStore.Update(id, payload.toMatch(database.DefaultUserID), database.DefaultUserID)
	if err == services.ErrNotFound {
		respondError(w, http.StatusNotFound, "Match not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to update match")
		respondError(w, http.StatusInternalServerError, "Failed to update match")
		return
	}

	if payload.MistakeIDs != nil {
		if err := s.matchStore.ReplaceMistakes(id, *payload.MistakeIDs); err != nil {
			logrus.WithError(err).Error("Failed to replace mistake links")
			respondError(w, http.StatusInternalServerError, "Failed to replace mistake links")
			return
		}
	}

	match, err := s.matchStore.FindByID(id, database.DefaultUserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch updated match")
		respondError(w, http.StatusInternalServerError, "Failed to fetch updated match")
		return
	}

	respondJSON(w, http.StatusOK, match)
}

// handleDeleteMatch 删除对局及其全部关联行
func (s *Server) handleDeleteMatch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	err := s.matchStore.Delete(id, database.DefaultUserID)
	if err == services.ErrNotFound {
		respondError(w, http.StatusNotFound, "Match not found")
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Failed to delete match")
		respondError(w, http.StatusInternalServerError, "Failed to delete match")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetMatchStats 获取复合统计
func (s *Server) handleGetMatchStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.matchStore.Stats(database.DefaultUserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch match stats")
		respondError(w, http.StatusInternalServerError, "Failed to fetch match stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

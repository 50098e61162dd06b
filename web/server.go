package web

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"riftlog/config"
	"riftlog/services"
)

type Server struct {
	config       *config.Config
	db           *sql.DB
	matchStore   *services.MatchStore
	goalStore    *services.GoalStore
	mistakeStore *services.MistakeStore
	httpServer   *http.Server
}

func NewServer(cfg *config.Config, db *sql.DB) *Server {
	return &Server{
		config:       cfg,
		db:           db,
		matchStore:   services.NewMatchStore(db),
		goalStore:    services.NewGoalStore(db),
		mistakeStore: services.NewMistakeStore(db),
	}
}

// Router 构建API路由(测试中也直接使用)
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()

	// API路由
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// /matches/stats 必须先于 /matches/{id} 注册
	api.HandleFunc("/matches/stats", s.handleGetMatchStats).Methods("GET")
	api.HandleFunc("/matches", s.handleGetMatches).Methods("GET")
	api.HandleFunc("/matches", s.handleCreateMatch).Methods("POST")
	api.HandleFunc("/matches/{id:[0-9]+}", s.handleGetMatch).Methods("GET")
	api.HandleFunc("/matches/{id:[0-9]+}", s.handleUpdateMatch).Methods("PUT")
	api.HandleFunc("/matches/{id:[0-9]+}", s.handleDeleteMatch).Methods("DELETE")

	api.HandleFunc("/goals", s.handleGetGoals).Methods("GET")
	api.HandleFunc("/goals", s.handleCreateGoal).Methods("POST")
	api.HandleFunc("/goals/{id:[0-9]+}", s.handleGetGoal).Methods("GET")
	api.HandleFunc("/goals/{id:[0-9]+}", s.handleUpdateGoal).Methods("PUT")
	api.HandleFunc("/goals/{id:[0-9]+}", s.handleDeleteGoal).Methods("DELETE")

	api.HandleFunc("/mistakes/stats", s.handleGetMistakeStats).Methods("GET")
	api.HandleFunc("/mistakes", s.handleGetMistakes).Methods("GET")

	// CORS配置，浏览器客户端跨源访问
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown error")
	}
}

// handleHealth 健康检查
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}

// respondJSON 统一JSON响应
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logrus.WithError(err).Error("Failed to encode response")
		}
	}
}

// respondError 所有错误以 {"error": msg} 返回，并在服务端记录
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

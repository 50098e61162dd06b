// Package client 提供REST API的类型化访问。
//
// 客户端既可以通过 NewWithURL 走真实HTTP，也可以通过 NewWithHandler
// 直接对接路由器(不经过网络，适合单元测试)。
package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"riftlog/database"
	"riftlog/services"
)

// ErrUnreachable 传输层失败(连不上服务器)，与服务端拒绝请求区分开
var ErrUnreachable = errors.New("cannot reach server")

// APIError 服务端拒绝请求
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

// Client API访问客户端
type Client struct {
	url        string
	httpClient *http.Client
	handler    http.Handler
}

// NewWithURL 创建走真实HTTP的客户端，url形如 http://localhost:5000/api
func NewWithURL(url string) *Client {
	return &Client{
		url:        strings.TrimRight(url, "/"),
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// NewWithHandler 创建直接对接路由器的进程内客户端(测试用)
func NewWithHandler(handler http.Handler) *Client {
	return &Client{url: "/api", handler: handler}
}

// do 发起请求并解析JSON响应；out为nil时丢弃响应体
func (c *Client) do(method, path string, body interface{}, out interface{}) (int, error) {
	var reqBody io.Reader
	if body != nil {
		j, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reqBody = bytes.NewBuffer(j)
	}

	req, err := http.NewRequest(method, c.url+path, reqBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	var status int
	var resBody []byte
	if c.handler != nil {
		rec := httptest.NewRecorder()
		c.handler.ServeHTTP(rec, req)
		status = rec.Code
		resBody = rec.Body.Bytes()
	} else {
		res, err := c.httpClient.Do(req)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
		}
		defer res.Body.Close()
		status = res.StatusCode
		resBody, _ = io.ReadAll(res.Body)
	}

	if status >= 400 {
		return status, &APIError{Status: status, Message: apiErrorMessage(resBody)}
	}

	if out != nil && status != http.StatusNoContent && len(resBody) > 0 {
		if err := json.Unmarshal(resBody, out); err != nil {
			return status, err
		}
	}
	return status, nil
}

// apiErrorMessage 提取 {"error": msg} 的消息，解不开时原样返回
func apiErrorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

// Health 健康检查
func (c *Client) Health() error {
	_, err := c.do(http.MethodGet, "/health", nil, nil)
	return err
}

// MatchRequest 对局创建/更新载荷
type MatchRequest struct {
	Champion     string   `json:"champion"`
	Role         string   `json:"role"`
	Result       string   `json:"result"`
	Kills        int      `json:"kills"`
	Deaths       int      `json:"deaths"`
	Assists      int      `json:"assists"`
	CSPerMin     float64  `json:"cs_per_min"`
	GameDuration int      `json:"game_duration"`
	Notes        *string  `json:"notes,omitempty"`
	MistakeIDs   *[]int64 `json:"mistakeIds,omitempty"`
}

// Matches 获取对局列表；limit<=0 返回全部
func (c *Client) Matches(limit, offset int) ([]database.Match, error) {
	path := "/matches"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	}
	var matches []database.Match
	_, err := c.do(http.MethodGet, path, nil, &matches)
	return matches, err
}

// Match 获取单场对局
func (c *Client) Match(id int64) (*database.Match, error) {
	var match database.Match
	_, err := c.do(http.MethodGet, "/matches/"+strconv.FormatInt(id, 10), nil, &match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// CreateMatch 创建对局
func (c *Client) CreateMatch(req MatchRequest) (*database.Match, error) {
	var match database.Match
	_, err := c.do(http.MethodPost, "/matches", req, &match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// UpdateMatch 更新对局
func (c *Client) UpdateMatch(id int64, req MatchRequest) (*database.Match, error) {
	var match database.Match
	_, err := c.do(http.MethodPut, "/matches/"+strconv.FormatInt(id, 10), req, &match)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// DeleteMatch 删除对局
func (c *Client) DeleteMatch(id int64) error {
	_, err := c.do(http.MethodDelete, "/matches/"+strconv.FormatInt(id, 10), nil, nil)
	return err
}

// MatchStats 获取复合统计
func (c *Client) MatchStats() (*services.MatchStats, error) {
	var stats services.MatchStats
	_, err := c.do(http.MethodGet, "/matches/stats", nil, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GoalRequest 目标创建/更新载荷
type GoalRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	MatchIDs    []int64    `json:"matchIds,omitempty"`
}

// Goals 获取目标列表；status非空时过滤
func (c *Client) Goals(status string) ([]database.Goal, error) {
	path := "/goals"
	if status != "" {
		path += "?status=" + status
	}
	var goals []database.Goal
	_, err := c.do(http.MethodGet, path, nil, &goals)
	return goals, err
}

// Goal 获取单个目标
func (c *Client) Goal(id int64) (*database.Goal, error) {
	var goal database.Goal
	_, err := c.do(http.MethodGet, "/goals/"+strconv.FormatInt(id, 10), nil, &goal)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// CreateGoal 创建目标
func (c *Client) CreateGoal(req GoalRequest) (*database.Goal, error) {
	var goal database.Goal
	_, err := c.do(http.MethodPost, "/goals", req, &goal)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// UpdateGoal 更新目标
func (c *Client) UpdateGoal(id int64, req GoalRequest) (*database.Goal, error) {
	var goal database.Goal
	_, err := c.do(http.MethodPut, "/goals/"+strconv.FormatInt(id, 10), req, &goal)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// DeleteGoal 删除目标
func (c *Client) DeleteGoal(id int64) error {
	_, err := c.do(http.MethodDelete, "/goals/"+strconv.FormatInt(id, 10), nil, nil)
	return err
}

// Mistakes 获取失误目录
func (c *Client) Mistakes() ([]database.Mistake, error) {
	var mistakes []database.Mistake
	_, err := c.do(http.MethodGet, "/mistakes", nil, &mistakes)
	return mistakes, err
}

// MistakeStats 获取失误频率统计
func (c *Client) MistakeStats() ([]database.MistakeFrequency, error) {
	var stats []database.MistakeFrequency
	_, err := c.do(http.MethodGet, "/mistakes/stats", nil, &stats)
	return stats, err
}

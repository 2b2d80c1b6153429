package status

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/chillbroinf-cloud/DepBot/internal/logging"
	"github.com/chillbroinf-cloud/DepBot/internal/middleware"
	"github.com/chillbroinf-cloud/DepBot/internal/services"
)

// Server is the operator-facing HTTP surface: a small HTML dashboard,
// a live websocket feed and the JWT-protected admin routes.
type Server struct {
	log    *logrus.Logger
	casino *services.Casino
	tail   *logging.Tail
	hub    *Hub
	jwt    *services.JWTService
}

func NewServer(log *logrus.Logger, casino *services.Casino, tail *logging.Tail, hub *Hub, jwt *services.JWTService) *Server {
	return &Server{log: log, casino: casino, tail: tail, hub: hub, jwt: jwt}
}

// Router builds the gin engine. Release mode is the caller's call.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.dashboard)
	router.GET("/status", s.statusJSON)
	router.GET("/logs", s.logs)
	router.GET("/ws", s.hub.Handle)

	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuth(s.jwt, s.casino.IsAdmin))
	{
		admin.POST("/pause", s.togglePause)
		admin.POST("/ban/:id", s.toggleBan)
		admin.POST("/adjust", s.adjust)
		admin.POST("/reset/:id", s.reset)
		admin.POST("/queue/clear", s.clearQueue)
		admin.GET("/users/top", s.topUsers)
		admin.GET("/journal", s.journal)
		admin.GET("/feedback", s.feedback)
		admin.POST("/feedback/reply", s.replyFeedback)
	}

	return router
}

func (s *Server) statusJSON(c *gin.Context) {
	c.JSON(http.StatusOK, s.casino.Status())
}

func (s *Server) logs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"lines": s.tail.Recent()})
}

func (s *Server) dashboard(c *gin.Context) {
	st := s.casino.Status()
	var b strings.Builder
	b.WriteString("<html><head><title>casino status</title>")
	b.WriteString("<meta http-equiv=\"refresh\" content=\"10\"></head><body>")
	b.WriteString("<h1>Casino Status</h1><ul>")
	fmt.Fprintf(&b, "<li>accounts: %d (above start: %d)</li>", st.Accounts, st.RichAccounts)
	fmt.Fprintf(&b, "<li>total wagered: %d</li>", st.Stats.TotalWagered)
	fmt.Fprintf(&b, "<li>total won: %d</li>", st.Stats.TotalWon)
	fmt.Fprintf(&b, "<li>RTP: %.1f%%</li>", st.RTP)
	fmt.Fprintf(&b, "<li>active duels: %d, queue: %d</li>", st.ActiveDuels, st.QueueLen)
	fmt.Fprintf(&b, "<li>paused: %v</li>", st.Paused)
	fmt.Fprintf(&b, "<li>feedback entries: %d</li>", st.Feedback)
	b.WriteString("</ul><h2>Recent log</h2><pre>")
	for _, line := range s.tail.Recent() {
		b.WriteString(line)
	}
	b.WriteString("</pre></body></html>")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(b.String()))
}

func (s *Server) togglePause(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"paused": s.casino.TogglePause()})
}

func (s *Server) toggleBan(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "banned": s.casino.ToggleBan(id)})
}

type adjustRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	Delta  int64 `json:"delta" binding:"required"`
}

func (s *Server) adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bal := s.casino.AdminAdjust(req.UserID, req.Delta)
	c.JSON(http.StatusOK, gin.H{"user_id": req.UserID, "balance": bal})
}

func (s *Server) reset(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": id, "balance": s.casino.AdminReset(id)})
}

func (s *Server) clearQueue(c *gin.Context) {
	s.casino.ClearQueue()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func (s *Server) topUsers(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("n", "10"))
	c.JSON(http.StatusOK, gin.H{"users": s.casino.TopBalances(n)})
}

func (s *Server) journal(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"transactions": s.casino.Journal()})
}

func (s *Server) feedback(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"feedback": s.casino.Feedbacks()})
}

type replyRequest struct {
	FeedbackID string `json:"feedback_id" binding:"required"`
	Reply      string `json:"reply" binding:"required"`
}

func (s *Server) replyFeedback(c *gin.Context) {
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.casino.ReplyFeedback(req.FeedbackID, req.Reply); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"replied": true})
}

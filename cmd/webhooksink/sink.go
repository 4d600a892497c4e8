package main

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/allinone-seolbi/site/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Received is one webhook call as the sink saw it.
type Received struct {
	ID         string          `json:"id"`
	Channel    string          `json:"channel"`
	Payload    webhook.Payload `json:"payload"`
	ReceivedAt time.Time       `json:"received_at"`
}

// Sink stands in for the chat webhook during local runs. It keeps the most
// recent calls in memory and can be told to answer every Nth call with 429.
type Sink struct {
	mu        sync.Mutex
	received  []Received
	keep      int
	failEvery int
	calls     int
}

func NewSink(keep, failEvery int) *Sink {
	if keep < 1 {
		keep = 100
	}
	return &Sink{keep: keep, failEvery: failEvery}
}

func (s *Sink) Receive(c *gin.Context) {
	if s.shouldRateLimit() {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusTooManyRequests, gin.H{"message": "You are being rate limited.", "retry_after": 1.0})
		log.Warn().Str("channel", c.Param("channel")).Msg("rate limited webhook call")
		return
	}

	var payload webhook.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request", "details": err.Error()})
		return
	}
	if len(payload.Embeds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot send an empty message"})
		return
	}

	r := Received{
		ID:         uuid.NewString(),
		Channel:    c.Param("channel"),
		Payload:    payload,
		ReceivedAt: time.Now(),
	}
	s.store(r)

	ev := log.Info().Str("id", r.ID).Str("channel", r.Channel).Str("title", payload.Embeds[0].Title)
	for _, f := range payload.Embeds[0].Fields {
		ev = ev.Str(f.Name, f.Value)
	}
	ev.Msg("webhook received")

	c.Status(http.StatusNoContent)
}

func (s *Sink) List(c *gin.Context) {
	s.mu.Lock()
	out := make([]Received, len(s.received))
	copy(out, s.received)
	s.mu.Unlock()

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit >= 0 && limit < len(out) {
		out = out[len(out)-limit:]
	}
	c.JSON(http.StatusOK, gin.H{"received": out})
}

func (s *Sink) Reset(c *gin.Context) {
	s.mu.Lock()
	s.received = nil
	s.calls = 0
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (s *Sink) shouldRateLimit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.failEvery > 0 && s.calls%s.failEvery == 0
}

func (s *Sink) store(r Received) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received = append(s.received, r)
	if over := len(s.received) - s.keep; over > 0 {
		s.received = append(s.received[:0:0], s.received[over:]...)
	}
}

func SetupRouter(sink *Sink) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request processed")
	})

	router.POST("/api/webhooks/:channel/:token", sink.Receive)
	router.GET("/received", sink.List)
	router.DELETE("/received", sink.Reset)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})
	return router
}

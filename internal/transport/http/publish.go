package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobdeck/realtime/internal/adapters"
	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// PublishHandlers exposes one publish call per domain occurrence. A
// collaborator invokes these only after its own durable write committed, so
// a lost live update never loses data.
type PublishHandlers struct {
	chat         *adapters.Chat
	social       *adapters.Social
	notification *adapters.Notification
	rating       *adapters.Rating
	blog         *adapters.Blog
}

func NewPublishHandlers(chat *adapters.Chat, social *adapters.Social, notification *adapters.Notification, rating *adapters.Rating, blog *adapters.Blog) *PublishHandlers {
	return &PublishHandlers{
		chat:         chat,
		social:       social,
		notification: notification,
		rating:       rating,
		blog:         blog,
	}
}

func delivered(c *gin.Context, res core.PublishResult) {
	c.JSON(http.StatusOK, gin.H{"delivered": res.SentTo, "dropped": len(res.Dropped)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

type chatPublishRequest struct {
	ApplicationID string `json:"applicationId" binding:"required"`
	SenderID      string `json:"senderId" binding:"required"`
	Message       string `json:"message" binding:"required"`
	// ExcludeConn lets the originating client skip its own echo when the
	// message came in over REST from one of its connections.
	ExcludeConn string `json:"excludeConn"`
}

func (h *PublishHandlers) Chat(c *gin.Context) {
	var req chatPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res := h.chat.PublishMessage(req.ApplicationID, domain.UserID(req.SenderID), req.Message, core.ConnID(req.ExcludeConn))
	delivered(c, res)
}

type ratingPublishRequest struct {
	SchoolID      string   `json:"schoolId" binding:"required"`
	NewRating     *float64 `json:"newRating" binding:"required"`
	AverageRating *float64 `json:"averageRating" binding:"required"`
}

func (h *PublishHandlers) Rating(c *gin.Context) {
	var req ratingPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	delivered(c, h.rating.PublishUpdate(req.SchoolID, *req.NewRating, *req.AverageRating))
}

type blogPublishRequest struct {
	Kind adapters.BlogEventKind `json:"kind" binding:"required"`
	Blog adapters.BlogPost      `json:"blog" binding:"required"`
}

func (h *PublishHandlers) Blog(c *gin.Context) {
	var req blogPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, ok := h.blog.PublishEvent(req.Kind, req.Blog)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown blog event kind"})
		return
	}
	delivered(c, res)
}

type notificationPublishRequest struct {
	UserID       string `json:"userId" binding:"required"`
	Notification any    `json:"notification" binding:"required"`
}

func (h *PublishHandlers) Notification(c *gin.Context) {
	var req notificationPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	delivered(c, h.notification.PublishNotification(domain.UserID(req.UserID), req.Notification))
}

type socialPublishRequest struct {
	Kind      adapters.SocialEventKind `json:"kind" binding:"required"`
	ProfileID string                   `json:"profileId" binding:"required"`
	Payload   any                      `json:"payload"`
}

func (h *PublishHandlers) Social(c *gin.Context) {
	var req socialPublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, ok := h.social.PublishEvent(req.Kind, req.ProfileID, req.Payload)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown social event kind"})
		return
	}
	delivered(c, res)
}

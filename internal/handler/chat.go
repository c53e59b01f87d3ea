package handler

import (
	"net/http"
	"strconv"

	"digitask/internal/apierror"
	"digitask/internal/dto"
	"digitask/internal/middleware"
	"digitask/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	chat service.ChatService
}

func NewChatHandler(chat service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// CreateGroup handles POST /api/chat/groups. The caller becomes the owner.
func (h *ChatHandler) CreateGroup(c *gin.Context) {
	claims := middleware.GetClaims(c)
	ownerID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}

	var req dto.CreateChatGroupRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.chat.CreateGroup(c.Request.Context(), ownerID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListGroups handles GET /api/chat/groups: the caller's rooms.
func (h *ChatHandler) ListGroups(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}

	groups, err := h.chat.ListGroups(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// PostMessage handles POST /api/chat/groups/:id/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	claims := middleware.GetClaims(c)
	senderID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid group id"))
		return
	}

	var req dto.PostChatMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	msg, err := h.chat.PostMessage(c.Request.Context(), groupID, senderID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

// Messages handles GET /api/chat/groups/:id/messages?limit=N, oldest first.
func (h *ChatHandler) Messages(c *gin.Context) {
	claims := middleware.GetClaims(c)
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid token subject"))
		return
	}
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid group id"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	msgs, err := h.chat.Messages(c.Request.Context(), groupID, userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

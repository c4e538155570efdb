package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const userContextKey = "authenticated-user"

// OpenChatRequest representa a requisição para abrir uma conversa direta
type OpenChatRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
}

// SendMessageRequest representa a requisição para enviar uma mensagem
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ChatUseCaseInterface define a interface para o use case
type ChatUseCaseInterface interface {
	Contacts(ctx context.Context, me *User) ([]User, error)
	MyChats(ctx context.Context, me *User) ([]Chat, error)
	OpenDirectChat(ctx context.Context, me *User, otherID string) (*Chat, error)
	Messages(ctx context.Context, chatID string) ([]Message, error)
	SendMessage(ctx context.Context, me *User, chatID, content string) (*Message, error)
}

// ChatHandler contém os handlers HTTP do serviço de chat
type ChatHandler struct {
	useCase    ChatUseCaseInterface
	auth       AuthClient
	repository ChatRepository
	tracer     trace.Tracer
}

// NewChatHandler cria uma nova instância de ChatHandler
func NewChatHandler(useCase ChatUseCaseInterface, auth AuthClient, repository ChatRepository, tracer trace.Tracer) *ChatHandler {
	return &ChatHandler{
		useCase:    useCase,
		auth:       auth,
		repository: repository,
		tracer:     tracer,
	}
}

// RegisterRoutes registra as rotas do serviço no router
func (h *ChatHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)

	api := r.Group("/api")
	api.Use(h.Authenticate)
	api.GET("/users", h.ListUsers)
	api.GET("/chats", h.ListChats)
	api.POST("/chats", h.OpenChat)
	api.GET("/chats/:id/messages", h.ListMessages)
	api.POST("/chats/:id/messages", h.SendMessage)
}

// Authenticate valida o token Bearer contra o provedor hospedado e
// registra o perfil do usuário localmente
func (h *ChatHandler) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	user, err := h.auth.UserFromToken(c.Request.Context(), token)
	if errors.Is(err, ErrUnauthorized) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := h.repository.UpsertUser(c.Request.Context(), user); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Set(userContextKey, user)
	c.Next()
}

func currentUser(c *gin.Context) *User {
	return c.MustGet(userContextKey).(*User)
}

// ListUsers lista os contatos disponíveis
func (h *ChatHandler) ListUsers(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_users")
	defer span.End()

	users, err := h.useCase.Contacts(ctx, currentUser(c))
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListChats lista as conversas do usuário autenticado
func (h *ChatHandler) ListChats(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_chats")
	defer span.End()

	chats, err := h.useCase.MyChats(ctx, currentUser(c))
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// OpenChat abre (ou reaproveita) a conversa direta com outro usuário
func (h *ChatHandler) OpenChat(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "open_chat")
	defer span.End()

	var req OpenChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("participant_id", req.ParticipantID))

	chat, err := h.useCase.OpenDirectChat(ctx, currentUser(c), req.ParticipantID)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, chat)
}

// ListMessages lista as mensagens de uma conversa
func (h *ChatHandler) ListMessages(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_messages")
	defer span.End()

	chatID := c.Param("id")
	span.SetAttributes(attribute.String("chat_id", chatID))

	messages, err := h.useCase.Messages(ctx, chatID)
	if errors.Is(err, ErrChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// SendMessage envia uma mensagem para a conversa
func (h *ChatHandler) SendMessage(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "send_message")
	defer span.End()

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chatID := c.Param("id")
	span.SetAttributes(attribute.String("chat_id", chatID))

	message, err := h.useCase.SendMessage(ctx, currentUser(c), chatID, req.Content)
	if errors.Is(err, ErrChatNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, ErrEmptyMessage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, message)
}

// HealthCheck verifica a saúde do serviço
func (h *ChatHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chat-service",
	})
}

package main

import (
	"time"
)

// User representa um usuário autenticado pelo provedor hospedado
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Chat representa uma conversa direta entre dois participantes
type Chat struct {
	ID            string     `json:"id"`
	Participants  []User     `json:"participants"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewChat cria uma nova instância de Chat
func NewChat(id string, now time.Time) *Chat {
	return &Chat{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Message representa uma mensagem de uma conversa
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// NewMessage cria uma nova instância de Message
func NewMessage(id, chatID, senderID, content string, now time.Time) *Message {
	return &Message{
		ID:        id,
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: now,
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

var ErrEmptyMessage = errors.New("message content cannot be empty")

// ChatUseCase contém a lógica de negócio das conversas
type ChatUseCase struct {
	repository ChatRepository
	now        func() time.Time
	newID      func() string
}

// NewChatUseCase cria uma nova instância de ChatUseCase
func NewChatUseCase(repository ChatRepository, now func() time.Time, newID func() string) *ChatUseCase {
	return &ChatUseCase{
		repository: repository,
		now:        now,
		newID:      newID,
	}
}

// Contacts lista os usuários disponíveis para conversar
func (uc *ChatUseCase) Contacts(ctx context.Context, me *User) ([]User, error) {
	users, err := uc.repository.ListUsers(ctx, me.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// MyChats lista as conversas do usuário autenticado
func (uc *ChatUseCase) MyChats(ctx context.Context, me *User) ([]Chat, error) {
	chats, err := uc.repository.ListChats(ctx, me.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

// OpenDirectChat devolve a conversa direta com o outro usuário, criando-a
// se ainda não existir
func (uc *ChatUseCase) OpenDirectChat(ctx context.Context, me *User, otherID string) (*Chat, error) {
	existing, err := uc.repository.FindDirectChat(ctx, me.ID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	chat := NewChat(uc.newID(), uc.now())
	if err := uc.repository.CreateChat(ctx, chat, []string{me.ID, otherID}); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	log.Printf("✅ [CHAT] Created: %s (%s ↔ %s)", chat.ID, me.ID, otherID)
	return uc.repository.GetChat(ctx, chat.ID)
}

// Messages lista as mensagens de uma conversa
func (uc *ChatUseCase) Messages(ctx context.Context, chatID string) ([]Message, error) {
	if _, err := uc.repository.GetChat(ctx, chatID); err != nil {
		return nil, err
	}

	messages, err := uc.repository.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// SendMessage grava uma nova mensagem na conversa
func (uc *ChatUseCase) SendMessage(ctx context.Context, me *User, chatID, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	if _, err := uc.repository.GetChat(ctx, chatID); err != nil {
		return nil, err
	}

	message := NewMessage(uc.newID(), chatID, me.ID, content, uc.now())
	if err := uc.repository.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	log.Printf("✅ [MESSAGE] %s → chat %s", me.ID, chatID)
	return message, nil
}

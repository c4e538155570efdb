package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var ErrChatNotFound = errors.New("chat not found")

// ChatRepository define a interface para operações de banco de dados do chat
type ChatRepository interface {
	UpsertUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context, exceptID string) ([]User, error)
	ListChats(ctx context.Context, userID string) ([]Chat, error)
	GetChat(ctx context.Context, chatID string) (*Chat, error)
	FindDirectChat(ctx context.Context, userA, userB string) (*Chat, error)
	CreateChat(ctx context.Context, chat *Chat, participantIDs []string) error
	ListMessages(ctx context.Context, chatID string) ([]Message, error)
	CreateMessage(ctx context.Context, message *Message) error
}

// PostgresChatRepository implementa ChatRepository usando PostgreSQL
type PostgresChatRepository struct {
	db *sql.DB
}

// NewPostgresChatRepository cria uma nova instância de PostgresChatRepository
func NewPostgresChatRepository(db *sql.DB) ChatRepository {
	return &PostgresChatRepository{
		db: db,
	}
}

// EnsureSchema cria as tabelas do chat se elas não existirem
func (r *PostgresChatRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			avatar_url TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS chats (
			id TEXT PRIMARY KEY,
			last_message TEXT NOT NULL DEFAULT '',
			last_message_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS chat_participants (
			chat_id TEXT NOT NULL REFERENCES chats(id),
			user_id TEXT NOT NULL,
			PRIMARY KEY (chat_id, user_id)
		);
		CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			chat_id TEXT NOT NULL REFERENCES chats(id),
			sender_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			read BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	return err
}

// UpsertUser registra ou atualiza o perfil do usuário autenticado
func (r *PostgresChatRepository) UpsertUser(ctx context.Context, user *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, full_name, email, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			avatar_url = EXCLUDED.avatar_url
	`, user.ID, user.Name, user.FullName, user.Email, user.AvatarURL)
	return err
}

// ListUsers lista os usuários conhecidos, exceto o próprio solicitante
func (r *PostgresChatRepository) ListUsers(ctx context.Context, exceptID string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, full_name, email, avatar_url
		FROM users WHERE id != $1 ORDER BY name
	`, exceptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.FullName, &user.Email, &user.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ListChats lista as conversas do usuário, mais recentes primeiro
func (r *PostgresChatRepository) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.last_message, c.last_message_at, c.created_at, c.updated_at
		FROM chats c
		JOIN chat_participants cp ON cp.chat_id = c.id
		WHERE cp.user_id = $1
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := make([]Chat, 0)
	for rows.Next() {
		var chat Chat
		var lastMessageAt sql.NullTime
		if err := rows.Scan(&chat.ID, &chat.LastMessage, &lastMessageAt, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, err
		}
		if lastMessageAt.Valid {
			chat.LastMessageAt = &lastMessageAt.Time
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range chats {
		participants, err := r.chatParticipants(ctx, chats[i].ID)
		if err != nil {
			return nil, err
		}
		chats[i].Participants = participants
	}
	return chats, nil
}

// GetChat busca uma conversa pelo id
func (r *PostgresChatRepository) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	var lastMessageAt sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, last_message, last_message_at, created_at, updated_at
		FROM chats WHERE id = $1
	`, chatID).Scan(&chat.ID, &chat.LastMessage, &lastMessageAt, &chat.CreatedAt, &chat.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastMessageAt.Valid {
		chat.LastMessageAt = &lastMessageAt.Time
	}

	participants, err := r.chatParticipants(ctx, chat.ID)
	if err != nil {
		return nil, err
	}
	chat.Participants = participants
	return &chat, nil
}

// FindDirectChat busca a conversa direta entre dois usuários, se existir
func (r *PostgresChatRepository) FindDirectChat(ctx context.Context, userA, userB string) (*Chat, error) {
	var chatID string
	err := r.db.QueryRowContext(ctx, `
		SELECT cp.chat_id
		FROM chat_participants cp
		GROUP BY cp.chat_id
		HAVING array_agg(cp.user_id ORDER BY cp.user_id) = $1
	`, pq.Array(sortedPair(userA, userB))).Scan(&chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.GetChat(ctx, chatID)
}

// CreateChat cria a conversa e registra os participantes na mesma transação
func (r *PostgresChatRepository) CreateChat(ctx context.Context, chat *Chat, participantIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO chats (id, created_at, updated_at) VALUES ($1, $2, $3)
	`, chat.ID, chat.CreatedAt, chat.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}

	for _, userID := range participantIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO chat_participants (chat_id, user_id) VALUES ($1, $2)
		`, chat.ID, userID)
		if err != nil {
			return fmt.Errorf("failed to register participant: %w", err)
		}
	}

	return tx.Commit()
}

// ListMessages lista as mensagens da conversa em ordem cronológica
func (r *PostgresChatRepository) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, sender_id, content, created_at, read
		FROM messages WHERE chat_id = $1 ORDER BY created_at
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var message Message
		if err := rows.Scan(&message.ID, &message.ChatID, &message.SenderID,
			&message.Content, &message.Timestamp, &message.Read); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

// CreateMessage grava a mensagem e atualiza o resumo da conversa na mesma
// transação
func (r *PostgresChatRepository) CreateMessage(ctx context.Context, message *Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, content, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, message.ID, message.ChatID, message.SenderID, message.Content, message.Timestamp, message.Read)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE chats SET last_message = $1, last_message_at = $2, updated_at = $2
		WHERE id = $3
	`, message.Content, message.Timestamp, message.ChatID)
	if err != nil {
		return fmt.Errorf("failed to update chat summary: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresChatRepository) chatParticipants(ctx context.Context, chatID string) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.full_name, u.email, u.avatar_url
		FROM users u
		JOIN chat_participants cp ON cp.user_id = u.id
		WHERE cp.chat_id = $1
		ORDER BY u.name
	`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.FullName, &user.Email, &user.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func sortedPair(a, b string) []string {
	if a < b {
		return []string{a, b}
	}
	return []string{b, a}
}

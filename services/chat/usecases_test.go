package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockChatRepository é um mock do ChatRepository para testes
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) UpsertUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockChatRepository) ListUsers(ctx context.Context, exceptID string) ([]User, error) {
	args := m.Called(ctx, exceptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockChatRepository) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Chat), args.Error(1)
}

func (m *MockChatRepository) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Chat), args.Error(1)
}

func (m *MockChatRepository) FindDirectChat(ctx context.Context, userA, userB string) (*Chat, error) {
	args := m.Called(ctx, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Chat), args.Error(1)
}

func (m *MockChatRepository) CreateChat(ctx context.Context, chat *Chat, participantIDs []string) error {
	args := m.Called(ctx, chat, participantIDs)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, chatID string) ([]Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Message), args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, message *Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

var chatTestClock = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestChatUseCase(repository ChatRepository) *ChatUseCase {
	return NewChatUseCase(repository, func() time.Time { return chatTestClock }, func() string {
		return "chat-id-1"
	})
}

func TestOpenDirectChatReusesExisting(t *testing.T) {
	repository := new(MockChatRepository)
	me := &User{ID: "user-a", Name: "Ana"}
	existing := &Chat{ID: "chat-42", CreatedAt: chatTestClock, UpdatedAt: chatTestClock}

	repository.On("FindDirectChat", mock.Anything, "user-a", "user-b").Return(existing, nil)

	useCase := newTestChatUseCase(repository)
	chat, err := useCase.OpenDirectChat(context.Background(), me, "user-b")

	require.NoError(t, err)
	assert.Equal(t, "chat-42", chat.ID)
	repository.AssertNotCalled(t, "CreateChat", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenDirectChatCreatesWhenMissing(t *testing.T) {
	repository := new(MockChatRepository)
	me := &User{ID: "user-a", Name: "Ana"}
	created := &Chat{ID: "chat-id-1", CreatedAt: chatTestClock, UpdatedAt: chatTestClock}

	repository.On("FindDirectChat", mock.Anything, "user-a", "user-b").Return(nil, nil)
	repository.On("CreateChat", mock.Anything, mock.MatchedBy(func(chat *Chat) bool {
		return chat.ID == "chat-id-1" && chat.CreatedAt.Equal(chatTestClock)
	}), []string{"user-a", "user-b"}).Return(nil)
	repository.On("GetChat", mock.Anything, "chat-id-1").Return(created, nil)

	useCase := newTestChatUseCase(repository)
	chat, err := useCase.OpenDirectChat(context.Background(), me, "user-b")

	require.NoError(t, err)
	assert.Equal(t, "chat-id-1", chat.ID)
	repository.AssertExpectations(t)
}

func TestSendMessage(t *testing.T) {
	repository := new(MockChatRepository)
	me := &User{ID: "user-a", Name: "Ana"}
	chat := &Chat{ID: "chat-42"}

	repository.On("GetChat", mock.Anything, "chat-42").Return(chat, nil)
	repository.On("CreateMessage", mock.Anything, mock.MatchedBy(func(message *Message) bool {
		return message.ChatID == "chat-42" &&
			message.SenderID == "user-a" &&
			message.Content == "Bom dia!" &&
			message.Timestamp.Equal(chatTestClock)
	})).Return(nil)

	useCase := newTestChatUseCase(repository)
	message, err := useCase.SendMessage(context.Background(), me, "chat-42", "Bom dia!")

	require.NoError(t, err)
	assert.Equal(t, "Bom dia!", message.Content)
	assert.False(t, message.Read)
	repository.AssertExpectations(t)
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	repository := new(MockChatRepository)
	me := &User{ID: "user-a"}

	useCase := newTestChatUseCase(repository)
	message, err := useCase.SendMessage(context.Background(), me, "chat-42", "   ")

	assert.Nil(t, message)
	assert.ErrorIs(t, err, ErrEmptyMessage)
	repository.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendMessageUnknownChat(t *testing.T) {
	repository := new(MockChatRepository)
	me := &User{ID: "user-a"}

	repository.On("GetChat", mock.Anything, "missing").Return(nil, ErrChatNotFound)

	useCase := newTestChatUseCase(repository)
	message, err := useCase.SendMessage(context.Background(), me, "missing", "Oi")

	assert.Nil(t, message)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestMessagesUnknownChat(t *testing.T) {
	repository := new(MockChatRepository)

	repository.On("GetChat", mock.Anything, "missing").Return(nil, ErrChatNotFound)

	useCase := newTestChatUseCase(repository)
	messages, err := useCase.Messages(context.Background(), "missing")

	assert.Nil(t, messages)
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestContacts(t *testing.T) {
	repository := new(MockChatRepository)
	me := &User{ID: "user-a"}

	repository.On("ListUsers", mock.Anything, "user-a").Return([]User{
		{ID: "user-b", Name: "Bruno"},
	}, nil)

	useCase := newTestChatUseCase(repository)
	users, err := useCase.Contacts(context.Background(), me)

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bruno", users[0].Name)
}

package command

import (
	"context"
	"sync"
	"unmark/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {
	// mocked
}

func (m *MockSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	// mocked
	return err
}

func (m *MockSender) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	args := m.Called(ctx, message, text)
	return args.Int(0), args.Error(1)
}

// MockTextSender records the last user-facing text, the way the chat would show it.
type MockTextSender struct {
	mu      sync.Mutex
	err     error
	Message string
}

func (m *MockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = text
	return 0, m.err
}

func (m *MockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

func (m *MockTextSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = domain.UserMessage(err)
	if m.err != nil {
		return m.err
	}
	return err
}

type MockImageSender struct {
	err   error
	Image []byte
}

func (m *MockImageSender) SendImageFileReply(_ context.Context, _ *domain.Message, file []byte) error {
	m.Image = file
	return m.err
}

type MockRemover struct {
	response []byte
	err      error
	Upload   domain.Upload
	Called   bool
}

func (m *MockRemover) Remove(_ context.Context, upload domain.Upload) ([]byte, error) {
	m.Called = true
	m.Upload = upload
	return m.response, m.err
}

type MockFetcher struct {
	data []byte
	err  error
}

func (m *MockFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return m.data, m.err
}

type MockAuthorizer struct {
	allow bool
}

func (m *MockAuthorizer) IsAuthorized(_ context.Context, _ *domain.Message) bool {
	return m.allow
}

type MockTracker struct {
	allow    bool
	requests int
}

func (m *MockTracker) AddRequest(_ int64) {
	m.requests++
}

func (m *MockTracker) Used(_ int64) int {
	return m.requests
}

func (m *MockTracker) CheckLimit(_ context.Context, _ *domain.Message) bool {
	return m.allow
}

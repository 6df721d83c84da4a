package testutil

import (
	"context"
	"sync"
)

// MockPushProvider records every push and answers with the configured error
// per token.
type MockPushProvider struct {
	mutex  sync.Mutex
	Errors map[string]error

	Sent []MockPush
}

type MockPush struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

func (m *MockPushProvider) Push(
	ctx context.Context, token, title, body string, data map[string]string,
) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.Sent = append(m.Sent, MockPush{Token: token, Title: title, Body: body, Data: data})
	if err, ok := m.Errors[token]; ok {
		return err
	}

	return nil
}

func (m *MockPushProvider) SentTokens() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	tokens := make([]string, 0, len(m.Sent))
	for _, p := range m.Sent {
		tokens = append(tokens, p.Token)
	}

	return tokens
}

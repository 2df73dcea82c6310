package teamapi

import (
	"context"
	"sync"

	"github.com/mpreston/teamsync/internal/action"
	"github.com/mpreston/teamsync/internal/models"
)

// MockClient is a scriptable API client for testing the sync layer.
// It records every call so tests can assert what reached the wire.
type MockClient struct {
	mu sync.Mutex

	teamCode string
	state    *models.State
	ignored  bool

	getErr    error
	postErr   error
	putErr    error
	createErr error

	// Recorded calls
	PostedActions []action.Action
	PushedStates  []*models.State
	GetCalls      int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithTeam sets the team code and state the mock serves
func WithTeam(code string, state *models.State) MockOption {
	return func(m *MockClient) {
		m.teamCode = code
		m.state = state
	}
}

// WithIgnored makes PostAction responses carry the ignored marker
func WithIgnored() MockOption {
	return func(m *MockClient) {
		m.ignored = true
	}
}

// WithGetError sets an error to return from GetState
func WithGetError(err error) MockOption {
	return func(m *MockClient) {
		m.getErr = err
	}
}

// WithPostError sets an error to return from PostAction
func WithPostError(err error) MockOption {
	return func(m *MockClient) {
		m.postErr = err
	}
}

// WithPutError sets an error to return from PutState
func WithPutError(err error) MockOption {
	return func(m *MockClient) {
		m.putErr = err
	}
}

// WithCreateError sets an error to return from CreateTeam
func WithCreateError(err error) MockOption {
	return func(m *MockClient) {
		m.createErr = err
	}
}

// NewMockClient creates a mock client with the given options
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{teamCode: "TEST"}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetState replaces the document the mock serves (for multi-poll tests).
func (m *MockClient) SetState(state *models.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

// GetCallCount returns the number of GetState calls observed, safe to
// read while the syncer is still polling.
func (m *MockClient) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GetCalls
}

// SetGetError replaces the GetState error mid-test.
func (m *MockClient) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
}

// SetPostError replaces the PostAction error mid-test.
func (m *MockClient) SetPostError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postErr = err
}

func (m *MockClient) CreateTeam(ctx context.Context) (*Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &Envelope{TeamCode: m.teamCode, State: m.state.Clone()}, nil
}

func (m *MockClient) GetState(ctx context.Context, teamCode string) (*Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &Envelope{TeamCode: m.teamCode, State: m.state.Clone()}, nil
}

func (m *MockClient) PostAction(ctx context.Context, teamCode string, act action.Action) (*Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return nil, m.postErr
	}
	m.PostedActions = append(m.PostedActions, act)
	return &Envelope{TeamCode: m.teamCode, State: m.state.Clone(), Ignored: m.ignored}, nil
}

func (m *MockClient) PutState(ctx context.Context, teamCode string, state *models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.PushedStates = append(m.PushedStates, state.Clone())
	return nil
}

func (m *MockClient) BaseURL() string {
	return "mock://teamsync"
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)

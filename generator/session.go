package generator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session 持有一个用户会话内的生成历史，只追加、不修改。
type Session struct {
	ID        string
	CreatedAt time.Time

	agent   *Agent
	mu      sync.Mutex
	history []HistoryEntry
	now     func() time.Time
}

// NewSession 创建 session，历史为空。
func NewSession(id string, agent *Agent) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		agent:     agent,
		now:       time.Now,
	}
}

// Generate 调用 agent 并记录结果；失败时历史不变。
func (s *Session) Generate(ctx context.Context, brief Brief, params Params) (HistoryEntry, error) {
	text, err := s.agent.Generate(ctx, brief, params)
	if err != nil {
		return HistoryEntry{}, err
	}
	entry := HistoryEntry{
		ID:          uuid.NewString(),
		Brief:       brief,
		Text:        text,
		Model:       params.Model,
		Temperature: params.Temperature,
		CreatedAt:   s.now(),
	}
	s.Append(entry)
	return entry, nil
}

func (s *Session) Append(entry HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
}

// List 返回历史副本，最新的在前。
func (s *Session) List() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	for i, e := range s.history {
		out[len(s.history)-1-i] = e
	}
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Clear 在会话结束时丢弃历史。
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

const (
	DefaultSessionIdleTTL = 2 * time.Hour
	DefaultMaxSessions    = 1000
)

// SessionStore 按 id 保存互相隔离的会话。空闲超过 idleTTL 的会话会被回收，
// 数量达到 maxSessions 时淘汰最久未使用的会话。
type SessionStore struct {
	agent       *Agent
	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*storeEntry
}

type storeEntry struct {
	sess     *Session
	lastSeen time.Time
}

type StoreOption func(*SessionStore)

// WithIdleTTL 设置空闲回收时间，<= 0 表示不回收。
func WithIdleTTL(d time.Duration) StoreOption {
	return func(s *SessionStore) { s.idleTTL = d }
}

// WithMaxSessions 设置会话数量上限，<= 0 表示不限制。
func WithMaxSessions(n int) StoreOption {
	return func(s *SessionStore) { s.maxSessions = n }
}

func NewSessionStore(agent *Agent, opts ...StoreOption) *SessionStore {
	s := &SessionStore{
		agent:       agent,
		idleTTL:     DefaultSessionIdleTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    make(map[string]*storeEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Create() *Session {
	sess := NewSession(uuid.NewString(), s.agent)
	s.mu.Lock()
	now := s.now()
	evicted := s.sweepLocked(now)
	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		evicted = append(evicted, s.evictOldestLocked())
	}
	s.sessions[sess.ID] = &storeEntry{sess: sess, lastSeen: now}
	s.mu.Unlock()

	clearAll(evicted)
	return sess
}

// Get 返回会话并刷新其活跃时间；已过期的会话视为不存在。
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.sessions, id)
		s.mu.Unlock()
		e.sess.Clear()
		return nil, false
	}
	e.lastSeen = now
	s.mu.Unlock()
	return e.sess, true
}

// End 清空并移除会话，返回它是否存在。
func (s *SessionStore) End(id string) bool {
	s.mu.Lock()
	e, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if ok {
		e.sess.Clear()
	}
	return ok
}

// Sweep 回收所有空闲过期的会话，返回回收数量。
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	evicted := s.sweepLocked(s.now())
	s.mu.Unlock()
	clearAll(evicted)
	return len(evicted)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) expired(e *storeEntry, now time.Time) bool {
	return s.idleTTL > 0 && now.Sub(e.lastSeen) > s.idleTTL
}

func (s *SessionStore) sweepLocked(now time.Time) []*Session {
	var out []*Session
	for id, e := range s.sessions {
		if s.expired(e, now) {
			delete(s.sessions, id)
			out = append(out, e.sess)
		}
	}
	return out
}

func (s *SessionStore) evictOldestLocked() *Session {
	var oldestID string
	var oldest *storeEntry
	for id, e := range s.sessions {
		if oldest == nil || e.lastSeen.Before(oldest.lastSeen) {
			oldestID, oldest = id, e
		}
	}
	delete(s.sessions, oldestID)
	return oldest.sess
}

func clearAll(sessions []*Session) {
	for _, sess := range sessions {
		sess.Clear()
	}
}

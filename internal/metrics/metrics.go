package metrics

import (
	"sync"
	"time"
)

// Metrics counts orchestrator activity for the current process.
type Metrics struct {
	mu                    sync.RWMutex
	SessionsCreated       int64
	TurnsCommitted        int64
	FollowupOverrides     int64
	EvaluationsAttached   int64
	CoachReportsGenerated int64
	APICallsTotal         int64
	APICallsSuccessful    int64
	LastUpdateTime        time.Time
}

func New() *Metrics {
	return &Metrics{
		LastUpdateTime: time.Now(),
	}
}

func (m *Metrics) IncrementSessionsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsCreated++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementTurnsCommitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TurnsCommitted++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementFollowupOverrides() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FollowupOverrides++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementEvaluationsAttached() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EvaluationsAttached++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementCoachReportsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CoachReportsGenerated++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAPICall(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallsTotal++
	if success {
		m.APICallsSuccessful++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Metrics{
		SessionsCreated:       m.SessionsCreated,
		TurnsCommitted:        m.TurnsCommitted,
		FollowupOverrides:     m.FollowupOverrides,
		EvaluationsAttached:   m.EvaluationsAttached,
		CoachReportsGenerated: m.CoachReportsGenerated,
		APICallsTotal:         m.APICallsTotal,
		APICallsSuccessful:    m.APICallsSuccessful,
		LastUpdateTime:        m.LastUpdateTime,
	}
}

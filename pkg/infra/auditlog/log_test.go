package auditlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/asca-arts/gatekeeper/pkg/domain/security"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []security.Event
}

func (r *recordingDispatcher) Dispatch(event security.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func request(ip string) types.Request {
	return types.StaticRequest{
		RequestMethod: "GET",
		RequestPath:   "/api/v1/admin/security/events",
		Headers:       map[string]string{"CF-Connecting-IP": ip, "X-Forwarded-For": "198.51.100.1", "User-Agent": "Mozilla/5.0"},
	}
}

func TestLogEvent_StampsAndStores(t *testing.T) {
	c := newClock()
	fixedID := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	l := NewLog(WithTimeProvider(c.Now), WithIDProvider(func() uuid.UUID { return fixedID }))

	input := security.Event{
		Type:     security.EventSuspiciousActivity,
		Severity: security.SeverityCritical,
		Source:   security.Source{IP: "10.0.0.1", Path: "/x", Method: "GET"},
		Details:  map[string]any{"activity": "sql injection probe"},
	}
	l.LogEvent(input)

	got := l.GetRecentEvents(1)
	require.Len(t, got, 1)
	assert.Equal(t, c.Now(), got[0].Timestamp)
	assert.Equal(t, fixedID.String(), got[0].ID)
	assert.Equal(t, input.Type, got[0].Type)
	assert.Equal(t, input.Severity, got[0].Severity)
	assert.Equal(t, input.Source, got[0].Source)
	assert.Equal(t, input.Details, got[0].Details)
}

func TestLogEvent_IsolatedFromCallerMutation(t *testing.T) {
	l := NewLog()
	details := map[string]any{"reason": "bad password"}
	l.LogEvent(security.Event{Type: security.EventAuthFailure, Severity: security.SeverityMedium, Details: details})

	details["reason"] = "changed"
	assert.Equal(t, "bad password", l.GetRecentEvents(1)[0].Details["reason"])
}

func TestLogEvent_CapacityEviction(t *testing.T) {
	l := NewLog(WithMaxEvents(10))
	for i := 0; i < 11; i++ {
		l.LogEvent(security.Event{ID: fmt.Sprintf("e%d", i), Type: security.EventRateLimit, Severity: security.SeverityMedium})
	}

	assert.Equal(t, 6, l.Len())
	recent := l.GetRecentEvents(100)
	require.Len(t, recent, 6)
	assert.Equal(t, "e10", recent[0].ID)
	assert.Equal(t, "e5", recent[5].ID)
}

func TestLogEvent_DefaultCapacityScenario(t *testing.T) {
	l := NewLog()
	for i := 0; i <= DefaultMaxEvents; i++ {
		l.LogEvent(security.Event{ID: fmt.Sprintf("e%d", i), Type: security.EventAuthSuccess, Severity: security.SeverityLow})
	}

	assert.Equal(t, 5001, l.Len())
	last := l.GetRecentEvents(1)
	require.Len(t, last, 1)
	assert.Equal(t, fmt.Sprintf("e%d", DefaultMaxEvents), last[0].ID)
}

func TestLogEvent_Dispatches(t *testing.T) {
	d := &recordingDispatcher{}
	l := NewLog(WithDispatcher(d))

	l.LogAuthFailure(request("10.0.0.1"), "unknown user")

	require.Len(t, d.events, 1)
	assert.Equal(t, security.EventAuthFailure, d.events[0].Type)
	assert.NotEmpty(t, d.events[0].ID)
}

func TestLogEvent_ConcurrentWritersAndReaders(t *testing.T) {
	l := NewLog(WithMaxEvents(100))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				l.LogRateLimit(request("10.0.0.1"), 11, 10)
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for _, evt := range l.GetRecentEvents(20) {
					assert.Equal(t, security.EventRateLimit, evt.Type)
				}
				_ = l.GetStats()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, l.Len(), 100)
	assert.GreaterOrEqual(t, l.Len(), 51)
}

func TestConvenienceConstructors(t *testing.T) {
	l := NewLog()
	admin := security.User{ID: "u1", Email: "ops@example.com", Role: "admin"}

	l.LogAuthSuccess(request("10.0.0.1"), admin)
	l.LogAuthFailure(request("10.0.0.1"), "invalid password")
	l.LogRateLimit(request("10.0.0.2"), 15, 10)
	l.LogRateLimit(request("10.0.0.2"), 21, 10)
	l.LogSuspiciousActivity(request("10.0.0.3"), "path traversal", map[string]any{"path": "../../etc/passwd"})
	l.LogAdminAction(request("10.0.0.1"), admin, "list_security_events", "security_events")

	events := l.GetRecentEvents(10)
	require.Len(t, events, 6)

	adminAction, suspicious, highRate, mediumRate, failure, success := events[0], events[1], events[2], events[3], events[4], events[5]

	assert.Equal(t, security.EventAuthSuccess, success.Type)
	assert.Equal(t, security.SeverityLow, success.Severity)
	assert.Equal(t, &admin, success.User)

	assert.Equal(t, security.SeverityMedium, failure.Severity)
	assert.Equal(t, "invalid password", failure.Details["reason"])
	assert.Nil(t, failure.User)

	assert.Equal(t, security.SeverityMedium, mediumRate.Severity)
	assert.Equal(t, 15, mediumRate.Details["count"])
	assert.Equal(t, security.SeverityHigh, highRate.Severity)

	assert.Equal(t, security.SeverityHigh, suspicious.Severity)
	assert.Equal(t, "path traversal", suspicious.Details["activity"])
	assert.Equal(t, "../../etc/passwd", suspicious.Details["path"])

	assert.Equal(t, security.EventAdminAction, adminAction.Type)
	assert.Equal(t, security.SeverityMedium, adminAction.Severity)
	assert.Equal(t, "security_events", adminAction.Details["target"])
}

func TestLogRateLimit_SeverityBoundary(t *testing.T) {
	l := NewLog()
	l.LogRateLimit(request("10.0.0.1"), 20, 10)
	l.LogRateLimit(request("10.0.0.1"), 21, 10)

	events := l.GetRecentEvents(2)
	assert.Equal(t, security.SeverityHigh, events[0].Severity)
	assert.Equal(t, security.SeverityMedium, events[1].Severity)
}

func TestSourceFromRequest_PrefersCDNHeader(t *testing.T) {
	src := SourceFromRequest(request("203.0.113.9"))
	assert.Equal(t, "203.0.113.9", src.IP)
	assert.Equal(t, "Mozilla/5.0", src.UserAgent)
	assert.Equal(t, "GET", src.Method)
	assert.Equal(t, "/api/v1/admin/security/events", src.Path)

	assert.Equal(t, "unknown", SourceFromRequest(nil).IP)
	assert.Equal(t, "unknown", SourceFromRequest(types.StaticRequest{}).IP)
}

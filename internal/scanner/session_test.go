package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuttle-booking/internal/domain"
	apperrors "github.com/shuttle-booking/internal/pkg/errors"
)

// fakeSource отдаёт заранее заданные коды, затем ошибку end
type fakeSource struct {
	mu      sync.Mutex
	openErr error
	codes   []string
	end     error
	opened  bool
	closed  int
}

func (f *fakeSource) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.openErr != nil {
		return f.openErr
	}
	f.opened = true
	return nil
}

func (f *fakeSource) Read(ctx context.Context) (Code, error) {
	f.mu.Lock()
	if len(f.codes) > 0 {
		c := f.codes[0]
		f.codes = f.codes[1:]
		f.mu.Unlock()
		return Code{Value: c}, nil
	}
	end := f.end
	f.mu.Unlock()

	if end != nil {
		return Code{}, end
	}
	<-ctx.Done()
	return Code{}, ctx.Err()
}

func (f *fakeSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// stepClock сдвигает время на step при каждом вызове
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestSession_DebouncesRepeats(t *testing.T) {
	src := &fakeSource{codes: []string{"A", "A", "B", "A", "A"}, end: io.EOF}
	clock := &stepClock{t: time.Unix(0, 0), step: time.Second}

	var suppressed []string
	s := NewSession(src, zap.NewNop(),
		withClock(clock.now),
		WithSuppressed(func(c Code) { suppressed = append(suppressed, c.Value) }),
	)

	var got []string
	err := s.Run(context.Background(), func(c Code) { got = append(got, c.Value) })
	require.NoError(t, err)

	// t=1 A, t=2 A (1s), t=3 B, t=4 A (3s after first A - new), t=5 A (1s)
	assert.Equal(t, []string{"A", "B", "A"}, got)
	assert.Equal(t, []string{"A", "A"}, suppressed)
	assert.Equal(t, 1, src.closed)
}

func TestSession_ClosesOnCancel(t *testing.T) {
	src := &fakeSource{}
	s := NewSession(src, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(Code) {})
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
	assert.Equal(t, 1, src.closed)
}

func TestSession_ClosesOnReadError(t *testing.T) {
	src := &fakeSource{codes: []string{"A"}, end: errors.New("usb disconnected")}
	s := NewSession(src, zap.NewNop())

	err := s.Run(context.Background(), func(Code) {})
	assert.ErrorContains(t, err, "usb disconnected")
	assert.Equal(t, 1, src.closed)
}

func TestSession_ClosesOnHandlerPanic(t *testing.T) {
	src := &fakeSource{codes: []string{"A"}}
	s := NewSession(src, zap.NewNop())

	err := s.Run(context.Background(), func(Code) { panic("boom") })
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 1, src.closed)
}

func TestSession_OpenFailure(t *testing.T) {
	src := &fakeSource{openErr: errors.New("permission denied")}
	s := NewSession(src, zap.NewNop())

	err := s.Run(context.Background(), func(Code) {})
	assert.ErrorIs(t, err, apperrors.ErrCameraUnavailable)
	assert.Zero(t, src.closed, "nothing to close when open failed")
}

func TestSession_RestartStartsClean(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0), step: time.Millisecond}

	src := &fakeSource{codes: []string{"A"}, end: io.EOF}
	s := NewSession(src, zap.NewNop(), withClock(clock.now))

	var got []string
	require.NoError(t, s.Run(context.Background(), func(c Code) { got = append(got, c.Value) }))

	src.codes = []string{"A"}
	require.NoError(t, s.Run(context.Background(), func(c Code) { got = append(got, c.Value) }))

	assert.Equal(t, []string{"A", "A"}, got)
	assert.Equal(t, 2, src.closed)
}

// MockStreamRepository - testify mock для StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if ch := args.Get(0); ch != nil {
		return ch.(<-chan domain.StreamMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count, block)
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs ...string) error {
	return m.Called(ctx, stream, group, messageIDs).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

func TestStreamSource_ReadsScanFeed(t *testing.T) {
	streams := &MockStreamRepository{}
	msgs := make(chan domain.StreamMessage, 3)

	good, err := json.Marshal(domain.ScanFeedEvent{RouteID: "n1", Code: " ab12cd34e ", DeviceID: "kiosk-1"})
	require.NoError(t, err)
	msgs <- domain.StreamMessage{ID: "1-0", Data: "{broken"}
	msgs <- domain.StreamMessage{ID: "2-0", Data: string(good)}
	close(msgs)

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamCheckInScans, "g").Return(nil)
	streams.On("ConsumeStream", mock.Anything, domain.StreamCheckInScans, "g", "c").
		Return((<-chan domain.StreamMessage)(msgs), nil)
	streams.On("AckMessage", mock.Anything, domain.StreamCheckInScans, "g", "1-0").Return(nil)

	src := NewStreamSource(streams, domain.StreamCheckInScans, "g", "c", zap.NewNop())
	ctx := context.Background()
	require.NoError(t, src.Open(ctx))

	code, err := src.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AB12CD34E", code.Value)
	assert.Equal(t, "n1", code.RouteID)
	assert.Equal(t, "2-0", code.Ref)

	_, err = src.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)

	assert.NoError(t, src.Close())
	streams.AssertExpectations(t)
}

package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "github.com/shuttle-booking/internal/pkg/errors"
	"go.uber.org/zap"
)

// DefaultDebounce - повтор того же кода в течение этого окна игнорируется
const DefaultDebounce = 3 * time.Second

// Code - декодированное содержимое QR
type Code struct {
	Value    string
	RouteID  string
	DeviceID string
	// Ref - идентификатор в источнике (например, id сообщения стрима)
	Ref string
	At  time.Time
}

// CodeSource - камера или поток кодов от киоска.
// Read блокируется до следующего кода; io.EOF означает, что источник исчерпан
type CodeSource interface {
	Open(ctx context.Context) error
	Read(ctx context.Context) (Code, error)
	Close() error
}

type Option func(*Session)

// WithDebounce задаёт окно подавления повторов
func WithDebounce(d time.Duration) Option {
	return func(s *Session) {
		s.debounce = d
	}
}

// WithSuppressed вызывается для каждого подавленного повтора
func WithSuppressed(fn func(Code)) Option {
	return func(s *Session) {
		s.onSuppressed = fn
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session - одна отменяемая сессия сканирования
type Session struct {
	source       CodeSource
	debounce     time.Duration
	onSuppressed func(Code)
	now          func() time.Time
	logger       *zap.Logger
}

func NewSession(source CodeSource, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		source:   source,
		debounce: DefaultDebounce,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run открывает источник и передаёт каждый новый код в handle, пока не отменён ctx.
// Источник закрывается при любом выходе: отмена, ошибка чтения, паника обработчика.
// Состояние подавления повторов живёт только внутри одного Run
func (s *Session) Run(ctx context.Context, handle func(Code)) (err error) {
	if err := s.source.Open(ctx); err != nil {
		s.logger.Warn("Code source unavailable", zap.Error(err))
		return apperrors.ErrCameraUnavailable.Wrap(err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan session panic: %v", r)
		}
	}()
	defer func() {
		if cerr := s.source.Close(); cerr != nil {
			s.logger.Warn("Failed to close code source", zap.Error(cerr))
		}
	}()

	lastSeen := make(map[string]time.Time)

	for {
		code, err := s.source.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read code: %w", err)
		}
		if code.Value == "" {
			continue
		}

		now := s.now()
		if code.At.IsZero() {
			code.At = now
		}
		if prev, ok := lastSeen[code.Value]; ok && now.Sub(prev) < s.debounce {
			if s.onSuppressed != nil {
				s.onSuppressed(code)
			}
			continue
		}
		lastSeen[code.Value] = now
		prune(lastSeen, now, s.debounce)

		handle(code)
	}
}

func prune(seen map[string]time.Time, now time.Time, window time.Duration) {
	if len(seen) < 64 {
		return
	}
	for k, t := range seen {
		if now.Sub(t) >= window {
			delete(seen, k)
		}
	}
}

package scanner

import (
	"context"
	"encoding/json"
	"io"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/utils"
	"go.uber.org/zap"
)

// StreamSource читает коды, опубликованные киосками в Redis Stream
type StreamSource struct {
	streams  repository.StreamRepository
	stream   string
	group    string
	consumer string
	logger   *zap.Logger

	msgs   <-chan domain.StreamMessage
	cancel context.CancelFunc
}

func NewStreamSource(streams repository.StreamRepository, stream, group, consumer string, logger *zap.Logger) *StreamSource {
	return &StreamSource{
		streams:  streams,
		stream:   stream,
		group:    group,
		consumer: consumer,
		logger:   logger,
	}
}

func (s *StreamSource) Open(ctx context.Context) error {
	if err := s.streams.CreateConsumerGroup(ctx, s.stream, s.group); err != nil {
		return err
	}

	readCtx, cancel := context.WithCancel(ctx)
	msgs, err := s.streams.ConsumeStream(readCtx, s.stream, s.group, s.consumer)
	if err != nil {
		cancel()
		return err
	}

	s.msgs = msgs
	s.cancel = cancel
	return nil
}

// Read возвращает следующий код; сообщения с битым JSON подтверждаются и пропускаются
func (s *StreamSource) Read(ctx context.Context) (Code, error) {
	for {
		select {
		case <-ctx.Done():
			return Code{}, ctx.Err()
		case msg, ok := <-s.msgs:
			if !ok {
				return Code{}, io.EOF
			}

			var ev domain.ScanFeedEvent
			if err := json.Unmarshal([]byte(msg.Data), &ev); err != nil {
				s.logger.Warn("Skipping malformed scan message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
				_ = s.Ack(ctx, msg.ID)
				continue
			}

			return Code{
				Value:    utils.NormalizeBookingID(ev.Code),
				RouteID:  ev.RouteID,
				DeviceID: ev.DeviceID,
				Ref:      msg.ID,
				At:       ev.Scanned,
			}, nil
		}
	}
}

// Ack подтверждает обработку кода
func (s *StreamSource) Ack(ctx context.Context, ref string) error {
	return s.streams.AckMessage(ctx, s.stream, s.group, ref)
}

func (s *StreamSource) Close() error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return nil
}

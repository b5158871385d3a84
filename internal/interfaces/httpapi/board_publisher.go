package httpapi

import (
	"context"
	"errors"

	"github.com/riskibarqy/cup-tracker/internal/interfaces/live"
	"github.com/riskibarqy/cup-tracker/internal/platform/logging"
	"github.com/riskibarqy/cup-tracker/internal/usecase"
)

const boardFrameType = "board"

type Broadcaster interface {
	Broadcast(msgType string, payload any) error
}

// BoardPublisher pushes each derived board to live viewers in the same shape
// GET /v1/board returns.
type BoardPublisher struct {
	hub    Broadcaster
	logger *logging.Logger
}

func NewBoardPublisher(hub Broadcaster, logger *logging.Logger) *BoardPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	return &BoardPublisher{hub: hub, logger: logger}
}

func (p *BoardPublisher) PublishBoard(ctx context.Context, board usecase.Board) {
	err := p.hub.Broadcast(boardFrameType, boardToDTO(board))
	if err != nil && !errors.Is(err, live.ErrHubClosed) {
		p.logger.WarnContext(ctx, "broadcast board failed", "error", err)
	}
}

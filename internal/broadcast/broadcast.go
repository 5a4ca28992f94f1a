package broadcast

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mijozbot/core/logger"
)

// Sender delivers a single message to a single chat.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error
	SendVideo(ctx context.Context, chatID int64, fileID, caption string) error
}

// Payload is the message fanned out to recipients. The first populated
// field wins: text, then photo, then video.
type Payload struct {
	Text    string
	PhotoID string
	VideoID string
	Caption string
}

// Result records the delivery outcome for one recipient.
type Result struct {
	Recipient int64
	Err       error
}

// Dispatch delivers the payload to each recipient in input order. A failed
// delivery is recorded and logged but never stops the batch. The returned
// slice has one entry per recipient, in input order.
func Dispatch(ctx context.Context, s Sender, recipients []int64, p Payload) []Result {
	batchID := uuid.NewString()
	start := time.Now()

	results := make([]Result, 0, len(recipients))
	for _, id := range recipients {
		err := deliver(ctx, s, id, p)
		results = append(results, Result{Recipient: id, Err: err})
		if err != nil {
			logger.Warn(ctx, "broadcast", "deliver.fail",
				slog.String("batch_id", batchID),
				slog.Int64("target_id", id),
				slog.String("err", err.Error()),
			)
		}
	}

	delivered, failed := Summarize(results)
	logger.Info(ctx, "broadcast", "batch.done",
		slog.String("batch_id", batchID),
		slog.Int("recipients", len(recipients)),
		slog.Int("delivered", delivered),
		slog.Int("failed", failed),
		slog.Duration("duration", logger.Took(start)),
	)
	return results
}

func deliver(ctx context.Context, s Sender, chatID int64, p Payload) error {
	switch {
	case p.Text != "":
		return s.SendText(ctx, chatID, p.Text)
	case p.PhotoID != "":
		return s.SendPhoto(ctx, chatID, p.PhotoID, p.Caption)
	case p.VideoID != "":
		return s.SendVideo(ctx, chatID, p.VideoID, p.Caption)
	default:
		return nil
	}
}

// Summarize counts delivered and failed entries in a result list.
func Summarize(results []Result) (delivered, failed int) {
	for _, r := range results {
		if r.Err != nil {
			failed++
		} else {
			delivered++
		}
	}
	return delivered, failed
}

package cli

import (
	"context"
	"errors"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/chat"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
)

// Ask runs one chat turn in the active trip and prints the reply. Turn
// failures print the error notice; the cause goes to the log.
func (a *App) Ask(ctx context.Context, text string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	before := a.chat.View()
	reply, err := a.chat.Submit(ctx, text)
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return nil
	case errors.Is(err, chat.ErrBusy):
		a.println(a.renderer.Muted("Still working on the previous message..."))
		return nil
	case errors.Is(err, chat.ErrDiscarded):
		return nil
	case err != nil:
		a.logger.Warn(ctx, "turn failed", "err", err)
		if reply.Role == "" {
			return err
		}
	}

	a.println(a.renderer.Message(reply))

	after := a.chat.View()
	if after.Title != "" && after.Title != models.DefaultTitle && after.Title != before.Title {
		a.println(a.renderer.Muted("Trip: " + after.Title))
	}
	return nil
}

// AskIn opens trip ref first, then asks.
func (a *App) AskIn(ctx context.Context, ref, text string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if ref != "" {
		if err := a.chat.Load(ctx, a.resolveTrip(ref)); err != nil {
			return err
		}
	}
	return a.Ask(ctx, text)
}

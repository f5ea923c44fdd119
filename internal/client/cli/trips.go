package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"
)

// Trips lists the user's conversations, most recently updated first. The
// numbers printed can be used with open and delete.
func (a *App) Trips(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.trips.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No trips yet. Just start typing to plan one.")
		return nil
	}

	active := a.chat.View().ConversationID
	for i, c := range list {
		marker := " "
		if c.ID == active {
			marker = "*"
		}
		a.printf("%s %2d. %s %s\n", marker, i+1, summaryTitle(c),
			a.renderer.Muted("("+c.UpdatedAt.Local().Format("2006-01-02 15:04")+")"))
	}
	return nil
}

// resolveTrip accepts either a list number from the last listing or an id.
func (a *App) resolveTrip(ref string) string {
	ref = strings.TrimSpace(ref)
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref
	}
	cached := a.trips.Cached()
	if n < 1 || n > len(cached) {
		return ref
	}
	return cached[n-1].ID
}

// Open makes a trip active and prints its transcript. If it cannot be
// loaded the view falls back to a new trip.
func (a *App) Open(ctx context.Context, ref string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if ref == "" {
		a.println("Usage: open <number|id>")
		return nil
	}

	if err := a.chat.Load(ctx, a.resolveTrip(ref)); err != nil {
		a.logger.Info(ctx, "trip not opened", "ref", ref, "err", err)
		a.println(a.renderer.Error("Could not open that trip; starting a new one."))
		return nil
	}

	v := a.chat.View()
	a.println(a.renderer.Muted("== " + v.Title + " =="))
	for _, m := range v.Messages {
		a.println(a.renderer.Message(m))
	}
	return nil
}

// DeleteTrip removes a trip, asking first unless confirmed is set.
func (a *App) DeleteTrip(ctx context.Context, ref string, confirmed bool) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if ref == "" {
		a.println("Usage: delete <number|id>")
		return nil
	}

	id := a.resolveTrip(ref)
	if !confirmed && !Confirm(a.reader, "Delete trip "+a.tripLabel(id)+"?", a.out) {
		a.println("Cancelled.")
		return nil
	}
	if err := a.chat.Delete(ctx, id); err != nil {
		return err
	}
	a.println("Trip deleted.")
	return nil
}

func (a *App) tripLabel(id string) string {
	for _, c := range a.trips.Cached() {
		if c.ID == id {
			return strconv.Quote(summaryTitle(c))
		}
	}
	return id
}

func (a *App) NewTrip(context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.chat.NewConversation()
	a.println("Started a new trip. Where to?")
	return nil
}

// ShowState prints the debug view of the turn state the next query will
// carry.
func (a *App) ShowState(context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	st := a.chat.View().PreviousState
	if st.IsNull() {
		a.println("No turn state yet.")
		return nil
	}

	d := st.Debug()
	status := d.Status
	if status == "" {
		status = "-"
	}
	a.printf("status: %s\n", status)
	if len(d.MissingFields) > 0 {
		a.printf("missing: %s\n", strings.Join(d.MissingFields, ", "))
	}
	return nil
}

// summaryTitle returns the display title for a possibly empty summary.
func summaryTitle(c models.ConversationSummary) string {
	if c.Title == "" {
		return models.DefaultTitle
	}
	return c.Title
}

package status

import (
	"context"
	"time"

	"github.com/samber/mo"

	"mcmonitor/clients"
	"mcmonitor/core/log"
	"mcmonitor/models"
	"mcmonitor/services"
	"mcmonitor/services/presenter"
)

// StatusUseCase queries the monitored server and builds views of the result.
// Every query is recorded in the snapshot store so views can show what changed.
type StatusUseCase struct {
	minecraftClient clients.MinecraftClient
	presenter       *presenter.Presenter
	snapshots       services.SnapshotStore
	target          models.ServerTarget
	queryTimeout    time.Duration
	now             func() time.Time
}

func NewStatusUseCase(
	minecraftClient clients.MinecraftClient,
	presenter *presenter.Presenter,
	snapshots services.SnapshotStore,
	target models.ServerTarget,
	queryTimeout time.Duration,
) *StatusUseCase {
	return &StatusUseCase{
		minecraftClient: minecraftClient,
		presenter:       presenter,
		snapshots:       snapshots,
		target:          target,
		queryTimeout:    queryTimeout,
		now:             time.Now,
	}
}

func (u *StatusUseCase) Target() models.ServerTarget {
	return u.target
}

// Query runs one status query and returns it with the previously recorded result.
// The snapshot is stamped when the query completes, not when it was requested.
func (u *StatusUseCase) Query(ctx context.Context) (models.QueryResult, mo.Option[models.QueryResult]) {
	result := u.Check(ctx)
	previous := u.snapshots.Record(result, u.now())

	if snapshot, ok := previous.Get(); ok {
		return result, mo.Some(snapshot.Result)
	}
	return result, mo.None[models.QueryResult]()
}

// Check runs one status query without recording it, so the change shown to
// Discord users only reflects the bot's own queries
func (u *StatusUseCase) Check(ctx context.Context) models.QueryResult {
	log.Debug("📋 Starting status query", "target", u.target.Key(), "timeout", u.queryTimeout)
	return u.minecraftClient.Query(ctx, u.target, u.queryTimeout)
}

// StatusView queries the server and presents the full status view
func (u *StatusUseCase) StatusView(ctx context.Context, forRefresh bool, now time.Time) (models.QueryResult, models.ViewModel) {
	result, previous := u.Query(ctx)
	return result, u.presenter.Present(result, previous, u.target, forRefresh, now)
}

// RosterView queries the server and presents the player list; None when the server is offline
func (u *StatusUseCase) RosterView(
	ctx context.Context,
	filter string,
	now time.Time,
) (models.QueryResult, mo.Option[models.ViewModel]) {
	result, _ := u.Query(ctx)
	if !result.IsOnline() {
		return result, mo.None[models.ViewModel]()
	}
	return result, mo.Some(u.presenter.PresentRoster(*result.Online, u.target, filter, now))
}

// Latest returns the last recorded snapshot without querying
func (u *StatusUseCase) Latest() mo.Option[models.Snapshot] {
	return u.snapshots.Latest()
}

// FailureView presents a refresh failure with only a retry action
func (u *StatusUseCase) FailureView(message string, now time.Time) models.ViewModel {
	return u.presenter.PresentFailure(u.target, message, now)
}

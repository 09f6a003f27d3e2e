// Package cleanup removes stale exports.
//
// Successful exports stay on disk until they are downloaded or moved. The
// Pruner deletes export sessions and archives older than a TTL, and
// optionally export history older than a retention period. The Scheduler
// runs the Pruner on a cron schedule.
//
// Session directories are recognised by the VERSION marker written by the
// first export stage; the Pruner never descends into them.
//
// Usage:
//
//	pruner := cleanup.NewPruner(&cleanup.Config{
//	    StoragePath: cfg.Export.StoragePath,
//	    TTL:         cfg.Cleanup.TTL,
//	    Schedule:    cfg.Cleanup.Schedule,
//	}, cleanup.WithMetrics(collector))
//	scheduler := cleanup.NewScheduler(pruner)
//	if err := scheduler.Start(ctx); err != nil {
//	    return err
//	}
//	defer scheduler.Stop()
package cleanup

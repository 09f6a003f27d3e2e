// Package health serves liveness and readiness probes for long-running
// portage commands such as the scheduled cleanup daemon.
//
// # Endpoints
//
//   - /healthz: liveness, 200 while the process runs
//   - /readyz: readiness, 503 when any registered check fails
//   - /version: build information
//
// # Usage
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("storage_path", health.DirectoryCheck(cfg.Export.StoragePath))
//	checker.RegisterCheck("scheduler", func(ctx context.Context) error {
//	    if !scheduler.IsRunning() {
//	        return errors.New("scheduler stopped")
//	    }
//	    return nil
//	})
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, health.VersionInfo{Version: version})
//
// Checks run concurrently, each bounded by the checker's timeout. A check
// that does not return in time is reported unhealthy.
package health

// Package export runs one project export session.
//
// A Service executes the export stages in a fixed order and stops at the
// first stage that fails:
//
//	version → avatar → project_tree → uploads → repository → wiki → lfs [→ archive]
//
// When every stage succeeds an optional AfterExportStrategy runs. On stage
// failure the session's export directory is removed, the failure is
// reported to the Notifier and Execute returns an *importexport.Error whose
// message is the session's diagnostics joined with ", ". When only the
// strategy fails the same cleanup happens but Execute returns nil.
//
// Usage:
//
//	shared := importexport.NewShared(cfg.Export.StoragePath, p.FullPath())
//	svc := export.NewService(p, shared, watcher.Current(),
//	    export.WithBundler(vcs.NewBundler()),
//	    export.WithNotifier(export.NewLogNotifier()),
//	)
//	if err := svc.Execute(ctx, nil, export.Options{Archive: true}); err != nil {
//	    var exportErr *importexport.Error
//	    if errors.As(err, &exportErr) { ... }
//	}
package export

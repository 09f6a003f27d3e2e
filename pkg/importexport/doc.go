// Package importexport holds the pieces shared by every part of the project
// export engine: the per-session state (Shared), the caller-visible export
// error, and the fixed layout of an export directory.
//
// An export directory looks like:
//
//	<storage>/<namespace>/<project>/<session-id>/
//	    VERSION
//	    avatar/<file>
//	    project.json
//	    uploads/...
//	    project.bundle
//	    project.wiki.bundle
//	    lfs-objects/<oid>
//
// The stages that produce each entry live in package savers, the attribute
// policy deciding what goes into project.json lives in package attributes,
// and the orchestrator running the stages lives in package export.
package importexport

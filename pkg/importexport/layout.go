package importexport

import (
	"fmt"
	"strings"
	"time"
)

// Fixed entry names of an export directory. Every entry is a direct child
// of the session's export path.
const (
	VersionFilename       = "VERSION"
	ProjectFilename       = "project.json"
	ProjectBundleFilename = "project.bundle"
	WikiBundleFilename    = "project.wiki.bundle"
	UploadsDirname        = "uploads"
	LFSObjectsDirname     = "lfs-objects"
	AvatarDirname         = "avatar"
)

// ArchiveSuffix is appended to every archive filename.
const ArchiveSuffix = "_export.tar.gz"

// ArchiveFilename returns the archive name for a project exported at t,
// e.g. "2018-09-21_14-03-512_group_project_export.tar.gz".
func ArchiveFilename(fullPath string, t time.Time) string {
	stamp := fmt.Sprintf("%s-%03d", t.Format("2006-01-02_15-04"), t.Nanosecond()/int(time.Millisecond))
	return stamp + "_" + strings.ReplaceAll(fullPath, "/", "_") + ArchiveSuffix
}

// Portage exports projects into portable, self-contained archives.
//
// An export writes a version marker, the project avatar, the entity tree
// filtered by the attribute rules (import_export.yml), uploads, git bundles
// of the repository and wiki, and LFS objects into a session directory,
// optionally packed into a tar.gz. A failing stage removes everything the
// session wrote.
//
// Usage:
//
//	# Register a project from a manifest and export it
//	portage project register --manifest project.yaml
//	portage export --project group/demo --archive
//
//	# Export straight from a manifest without registering it
//	portage export --manifest project.yaml
//
//	# Report attributes that are neither safe nor excluded
//	portage audit --safe safe_attributes.yml --columns columns.yml
//
//	# Prune stale exports every hour and serve metrics
//	portage cleanup --schedule
//
//	# Show version information
//	portage version
package main

func main() {
	Execute()
}

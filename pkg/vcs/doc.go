// Package vcs inspects project repositories and turns them into git
// bundles.
//
// Repository inspection is done in-process with go-git. Bundles are written
// by the git binary, since go-git cannot produce them; commands go through a
// CommandRunner so tests can substitute the process layer.
package vcs

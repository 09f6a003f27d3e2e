// Package savers implements the stages of a project export.
//
// Every stage writes one kind of artifact below the session's export path
// and reports success as a bool. A stage that returns false has already
// recorded a diagnostic in the session's Shared state; failures of
// collaborators never escape a stage.
package savers

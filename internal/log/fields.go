// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Catalog fields
	FieldEntries = "entries"
	FieldItems   = "items"
	FieldShows   = "shows"
	FieldSource  = "source"

	// Path fields
	FieldPath         = "path"
	FieldPlaylistPath = "playlist_path"
	FieldCatalogPath  = "catalog_path"
)

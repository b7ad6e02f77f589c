// Package types defines the entity types, form-data projections, paging
// envelopes, resource interfaces, and standard errors shared by the ttadmin
// client, its terminal UI, and the stub backend.
//
// Entities (Location, Transportation) are the read shapes returned by the
// backend. Each has a form-data projection holding only the editable fields;
// form data is the payload sent on create and update.
package types

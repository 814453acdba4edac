// Package sheets reads the incident spreadsheet published as a CSV export.
//
// Fetcher downloads the export with conditional GET so an unchanged sheet
// costs one 304. Parse maps the sheet layout onto incident records, finding
// the coordinate columns by header name and everything else by position.
// Fingerprint hashes the fields that matter to the dashboard so a reload
// that changed nothing visible can be skipped.
package sheets

// Package nrwe extracts structured case records from the published
// court-decision corpus of North Rhine-Westphalia. It harvests result
// links from the search UI, downloads the decision documents, and parses
// each document into a structured record: format classification, section
// extraction, and field normalization with per-document failure reporting.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/,
// rod/, sqlite/).
package nrwe

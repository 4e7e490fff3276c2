// Package models defines the core domain records for Hallmate.
//
// Two families of groups share the same membership structure:
//   - Split groups own expenses and settlements.
//   - Meal groups own grocery items, shopping duties, and meal entries.
//
// Every monetary field is a shopspring decimal rounded to two fractional
// digits at each write. Financial records are append-only: a correction is a
// new record, never an edit of a validated one.
//
// Participants are identified by their normalized email (lowercased,
// trimmed), unique within a group.
package models

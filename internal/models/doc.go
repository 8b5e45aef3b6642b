// Package models defines the core domain models for PenaltyBox.
//
// # Ledger entities
//
//   - Penalty: a fine issued to a group member by a group admin
//   - Proof: evidence that a penalty was paid, subject to admin review
//   - Payment: a direct settlement record, not tied to a specific penalty
//
// Penalties, proofs and payments form an append-only ledger: once any of
// them reaches an APPROVED/PAID state it is never deleted, and status
// changes only happen through the settlement engine.
//
// # Supporting entities
//
//   - User: a registered account; IsAdmin grants instance-wide powers
//   - Group: a set of members with per-group roles (member or admin)
//   - Rule: a group's catalog entry a penalty may reference
//
// # Design principles
//
//  1. Relationships use ID strings, never pointers, to avoid cycles
//  2. Amounts are integer minor currency units (no floats in the ledger)
//  3. Timestamps are Unix seconds, matching the storage layer
package models

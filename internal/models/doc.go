// Package models defines the core domain models for the scenario splitter.
//
// The central type is Scenario: one natural-language expense description
// after extraction, normalization, balance computation and settlement
// reduction. Participants are identified by normalized name strings; only
// Scenario ownership references a User account.
//
// Design principles:
//
//  1. Scenarios are immutable once created (create and delete only).
//  2. Amounts are float64 in the scenario's currency; currency is a label,
//     not a conversion unit.
//  3. Use ID strings instead of pointers for relationships.
package models

// Package models defines the core domain records for splitledger.
//
// # Records
//
// The journal is made of three kinds of records:
//   - Participant: a registered person, identified by name
//   - Expense: an immutable purchase paid by one participant and shared among several
//   - Settlement: an immutable payment from one participant to another
//
// Expenses and settlements are append-only. Nothing in this package mutates a record
// after it was created; balances are never stored and are always derived from the
// full history (see package calculator).
//
// # Money
//
// All amounts are decimal.Decimal values in a single, implicit currency.
package models

// Package ledger holds the pure financial arithmetic: allocating an expense
// across participants, folding events into per-member net balances, and
// planning transfers that clear all debts.
//
// Everything in this package is a side-effect-free function of its inputs.
// Failures are always invalid input; nothing here touches storage or the
// network. Amounts are shopspring decimals rounded to two places after every
// accumulation step, so the cent-exact invariants hold deterministically.
package ledger

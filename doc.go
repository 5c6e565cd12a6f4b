// Package fiscal computes the French income tax of a household holding
// equity compensation.
//
// The core functionalities are split in packages:
//   - equity: Ledger of RSU, ESPP and stock option lots, sold first in first
//     out, with the weighted average price of RSU, and the computation of the
//     acquisition gain (form 2042C) and capital gain (form 2074) of a year.
//   - tax: Simulation of the income tax from the boxes of the declaration,
//     with the family quotient, reductions, credits and social taxes.
//   - fx: Currency conversion at a date, backed by the European Central Bank
//     reference rates.
//
// This package glues them together: a Statement lists the declared boxes and
// the sales of the income year, Run replays the sales on a ledger and adds
// the resulting boxes to the declared ones before simulating.
//
// This package serves as the foundational logic for the `fisc` command-line
// tool and its HTTP service.
package fiscal

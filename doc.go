// Package budget provides the engine of a personal-finance ledger: dated
// transactions in several currencies, per-category monthly budgets, and the
// conversion of every amount into a chosen base currency.
//
// The core functionalities include:
//   - Ledger Management: recording transactions in insertion order and
//     keeping one monthly budget per category.
//   - Currency Conversion: a table of directed exchange rates, edited by hand
//     or refreshed from a remote rate feed.
//   - Aggregation: filtering, totals and per-category monthly sums, all
//     normalized into a base currency.
//   - Data Persistence: a single JSON document per profile, and CSV
//     import/export of transactions.
//
// The package never performs user interaction. The `bt` command-line tool
// is the presentation shell built on top of it: it owns path selection and
// status display, and reads results back through the values this package
// returns.
package budget

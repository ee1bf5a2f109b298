// Package fairval estimates the intrinsic value of a listed company with a
// two-stage Discounted Cash Flow model, and compares it to the current
// market price.
//
// The core functionalities include:
//   - Financial Statements: an immutable, normalized view of a company's
//     reported figures (operating income, depreciation, capital expenditures,
//     working capital changes, tax rate, shares outstanding) for one fiscal
//     period.
//   - Assumptions: the scalar knobs of the model (growth model, discount
//     rate, terminal growth, horizon), validated before any computation.
//   - Valuation Engine: a pure function projecting free cash flows over the
//     horizon, discounting them, capitalizing a terminal value, and deriving
//     an intrinsic price per share.
//
// This package serves as the foundational logic for the `fv` command-line
// tool. Fetching statements from financialmodelingprep.com lives in the fmp
// subpackage, and report rendering in the renderer subpackage.
package fairval

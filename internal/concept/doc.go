// Package concept finds and resolves concept tokens in formula text.
//
// A concept token is a bracketed reference to a financial line item for a
// given year, e.g. "[2023 Net Income]", or the derived "[Market Cap]".
// Tokens are validated against a Universe: the ordered years and concept
// names the caller offers to the user.
//
// Resolution is case-insensitive and treats hyphens as spaces, so
// "[2023 short term debt]" resolves to "[2023 Short-Term Debt]". The
// resolved Token is a sealed variant: Concept for plain line items,
// MarketCap for the derived close × shares-outstanding value.
//
// All functions in this package are pure and safe for concurrent use.
package concept

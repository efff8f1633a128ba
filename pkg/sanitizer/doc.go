// Package sanitizer normalizes free-text input from session and slot forms
// before it is validated and stored.
//
// All functions are idempotent and never fail: input that cannot be
// normalized comes back empty so the validator can reject it.
//
// Normalization includes:
//   - Player and account names: trim and collapse inner whitespace
//   - Emails: trim and lowercase
//   - Phone numbers: E.164 format, read as Australian and then New Zealand
//     numbers when no country code is given
package sanitizer

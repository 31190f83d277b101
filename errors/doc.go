/*
Package errors implements the error taxonomy shared by all barter packages.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. The ledger and the escrow
extension register their own root errors (asset type mismatch, record
mismatch and so on).

If you want to register a custom error - use Register(code, description).
Use Wrap or Wrapf at the point of creation to ensure we attach a stacktrace.
If you wrap multiple times, we only record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the full stack trace
*/
package errors

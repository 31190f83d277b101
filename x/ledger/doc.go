/*
Package ledger keeps the balances of holding accounts.

A holding account stores a single asset type and is owned by an address. Only
the condition hashing to that address can move funds out of the account or
close it. Every asset type is registered once with its ticker and the number
of decimals, and every transfer is checked against that registration.
*/
package ledger

/*
Package escrow implements a trustless two party swap.

A maker opens an escrow by locking some amount of asset A in a vault and
declaring how much of asset B they want in return. Any taker can settle the
escrow by paying the required amount of asset B, receiving the whole vault
content in exchange. Until that happens the maker can cancel the escrow and
recover the vault content.

Every escrow is stored under an address derived from the maker public key and
a maker chosen seed. The vault is a ledger holding account owned by a
condition computed from that address. The derived address is off the ed25519
curve, so there is no private key able to sign for it and only this package
can move funds out of a vault.

An escrow is either open or gone. Settled and cancelled escrows are deleted
together with their vault, so a second settle or cancel fails with
ErrNotFound.
*/
package escrow

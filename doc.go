/*

Package barter defines the interfaces used throughout the escrow application,
such as: storage, transactions, handlers and addresses.
It also contains the helpers to carry a logger and the authenticated signers
on a context, and the derivation of keyless addresses that custody funds.

*/

package barter

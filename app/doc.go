/*
Package app contains the generic pieces that turn handlers into a running
application: message routing, decorator chains, the committing store and the
Runner serializing all state transitions.
*/
package app

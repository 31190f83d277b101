/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket contains only one type of model and can maintain secondary
indexes that are updated together with the model, in the same store, so a
discarded cache wrap discards both.
*/
package orm

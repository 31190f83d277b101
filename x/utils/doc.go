/*
Package utils contains the decorators wrapped around every handler: panic
recovery, transaction logging and the savepoint that makes every message all
or nothing.
*/
package utils

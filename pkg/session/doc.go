/*
Package session implements session management and persistence orchestration.

A Manager wraps a ports.SessionStore and serializes turns of the same session:
two messages for one conversation are processed one after the other, each seeing
the state saved by the previous one. Across replicas the same guarantee comes from
an optional ports.DistributedLocker (for example the Redis locker).
*/
package session

// Package inmemoryui provides a thread-safe, in-memory implementation of the
// uitransport.Transport interface. It holds the element tree the builder
// creates and is used headless, by tests, and as the local model behind the
// socket transport.
package inmemoryui

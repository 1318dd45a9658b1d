// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle: load the program
// files, build the selected program, synthesize its UI and serve UI events
// until asked to quit. It is decoupled from any specific entrypoint like a
// CLI or server.
package app

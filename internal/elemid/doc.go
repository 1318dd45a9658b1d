// internal/elemid/doc.go

/*
Package elemid provides the identifiers used for UI elements.

Every element created by a transport is addressed by the path of
(role, index) pairs leading to it from the root, in the canonical format
`rootNetList.netPanel[0].procList.procPanel[2]`, and is assigned a stable
numeric ID that widgets, bindings and the engine refer to afterwards.

This package centralizes the formatting and parsing of addresses so the
in-memory tree and the wire transport agree on them.
*/
package elemid

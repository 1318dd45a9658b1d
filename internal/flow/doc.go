// Package flow holds the descriptors a processing engine hands to the UI
// layer: networks of processes, processes of variables, and the value types,
// channel topology and static flags that decide how each variable is shown.
//
// The descriptors are owned by the engine. The UI keeps non-owning pointers
// to them for the lifetime of one program load and talks back to the engine
// only through the Engine interface.
package flow

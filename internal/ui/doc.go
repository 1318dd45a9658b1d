// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package ui synthesizes a control surface for a flow.Net and keeps it bound
// to the engine.
//
// # Build
//
// Handle.Create walks the network tree top down. Every network gets a
// "network" template instance at the next slot of a counter shared by the
// whole build, every process with UI enabled gets a "proc" instance inside
// its network, and every process is laid out as a grid: one "chan" column
// for row labels followed by one column per channel. Within a column, row j
// belongs to the process's j-th variable and holds a label, a control or an
// empty placeholder.
//
// # Binding
//
// Each control is recorded in a Registry keyed by its element ID, and the
// engine receives a flow.UserArg naming the control, its label and its
// container so it can push state changes back through Handle.ApplyState.
// Value events from the transport go through Handle.OnValue; echo requests
// through Handle.OnEcho.
//
// A Handle is not safe for concurrent use.
package ui

// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import "errors"

var (
	// ErrInvalidConfig reports a malformed or unknown ui override, or a list
	// control without options.
	ErrInvalidConfig = errors.New("invalid UI configuration")
	// ErrUnsupportedType reports a value type with no widget.
	ErrUnsupportedType = errors.New("no widget for value type")
	// ErrNotBound reports an element ID with no binding.
	ErrNotBound = errors.New("element is not bound to a variable")
	// ErrBindingCorrupt reports a binding without a variable or a widget ID
	// bound twice.
	ErrBindingCorrupt = errors.New("corrupt UI binding")
)

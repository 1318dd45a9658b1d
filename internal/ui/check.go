// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/flowui/internal/flow"
)

// Check reports the configuration errors Create would hit for net without
// touching the transport, the engine or the current UI.
func (h *Handle) Check(net *flow.Net) error {
	if h == nil {
		return errors.New("UI check failed: nil handle")
	}
	if err := net.Validate(); err != nil {
		return fmt.Errorf("UI create failed: %w: %v", ErrInvalidConfig, err)
	}
	b := &builder{opts: h.opts}
	if err := b.checkNet(net); err != nil {
		return fmt.Errorf("UI create failed: %w", err)
	}
	return nil
}

func (b *builder) checkNet(net *flow.Net) error {
	for _, p := range net.Procs {
		if !net.CreateUI && !p.Class.CreateUI {
			continue
		}
		for _, v := range p.Vars {
			if !b.eligible(v) {
				continue
			}
			if _, err := controlKind(v); err != nil {
				return fmt.Errorf("process UI creation failed on %s: %w", p.Name(), err)
			}
		}
		for _, n := range p.Nets {
			if err := b.checkNet(n); err != nil {
				return fmt.Errorf("process UI creation failed on %s: %w", p.Name(), err)
			}
		}
	}
	return nil
}

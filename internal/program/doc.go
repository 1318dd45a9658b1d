// Package program loads processor classes and programs from HCL files and
// instantiates a program as a flow.Net.
//
// A class declares the variables every instance of it carries:
//
//	class "osc" {
//	  label     = "Oscillator"
//	  create_ui = true
//
//	  var "wave" {
//	    type    = string
//	    default = "sine"
//	    options = ["sine", "saw"]
//	    ui      = { type = "list" }
//	  }
//	  var "gain" {
//	    type     = float
//	    channels = 2
//	  }
//	}
//
// A program lists process instances, optionally with nested polyphonic
// networks:
//
//	program "tone" {
//	  proc "osc" "lfo" {
//	    set = { gain = 0.25 }
//	  }
//	  proc "voicer" "poly" {
//	    network {
//	      voices = 4
//	      proc "osc" "voice" {}
//	    }
//	  }
//	}
//
// A var with channels = N becomes one any-channel var carrying the row label
// plus N per-channel vars, unless shared = true, in which case the single
// any-channel var is shown once per channel.
package program

package main

import (
	"github.com/spf13/cobra"

	"cactusref/internal/buildinfo"
)

// CmdRoot is the cactusref command tree: a small driver over pkg/rc for
// building object graphs from a script, running the collector against
// them, and reporting or dumping what it found.
var CmdRoot = &cobra.Command{
	Use:     "cactusref",
	Short:   "Build and drop reference-counted object graphs",
	Long:    "cactusref builds sample object graphs from a small graph script\nand runs the cycle-aware collector against them.",
	Version: buildinfo.Summary(),
}

func init() {
	cobra.EnableCommandSorting = false
	CmdRoot.AddCommand(CmdBuild)
	CmdRoot.AddCommand(CmdGC)
	CmdRoot.AddCommand(CmdDump)
	CmdRoot.AddCommand(CmdStress)
}

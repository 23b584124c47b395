package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/nodes"
	"github.com/vovakirdan/tui-stage/internal/registry"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List node definitions",
	Long:  `Shows every node definition the sandbox registers, with the tokens each one depends on and provides.`,
	Run:   runNodes,
}

func runNodes(cmd *cobra.Command, args []string) {
	reg := registry.New()
	nodes.RegisterBuiltins(reg, nil, nil)
	defs := reg.List()

	if len(defs) == 0 {
		fmt.Println("No node definitions registered.")
		return
	}

	fmt.Println("Node definitions:")
	fmt.Println()

	// Calculate column widths
	maxCodeLen := 4 // "Code" header
	maxClassLen := 5
	for _, d := range defs {
		maxCodeLen = max(maxCodeLen, len(d.Code))
		maxClassLen = max(maxClassLen, len(d.Class))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-14s  %-14s  %s\n", maxCodeLen, "Code", maxClassLen, "Class", "Deps", "Provides", "Title")
	fmt.Printf("  %-*s  %-*s  %-14s  %-14s  %s\n", maxCodeLen, "----", maxClassLen, "-----", "----", "--------", "-----")

	for _, d := range defs {
		fmt.Printf("  %-*s  %-*s  %-14s  %-14s  %s\n",
			maxCodeLen, d.Code, maxClassLen, d.Class, tokens(d.Deps), tokens(d.Provides), d.Title)
	}
}

func tokens(ts []registry.Token) string {
	if len(ts) == 0 {
		return "-"
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

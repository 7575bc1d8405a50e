package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/collide/internal/registry"
	"github.com/vovakirdan/collide/internal/scenario"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List strategies and built-in scenarios",
	Long:  `Shows the registered detection strategies and the scenarios shipped with collide.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	strategies := registry.List()

	fmt.Println("Strategies:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range strategies {
		maxIDLen = max(maxIDLen, len(s.ID))
	}
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, s := range strategies {
		fmt.Printf("  %-*s  %s\n", maxIDLen, s.ID, s.Title)
	}

	scenarios := scenario.Builtin()

	fmt.Println()
	fmt.Println("Scenarios:")
	fmt.Println()

	maxIDLen = 2
	for _, sc := range scenarios {
		maxIDLen = max(maxIDLen, len(sc.ID))
	}
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "ID", "Frames", "Shapes")
	fmt.Printf("  %-*s  %-6s  %s\n", maxIDLen, "--", "------", "------")
	for _, sc := range scenarios {
		fmt.Printf("  %-*s  %-6d  %s vs %s\n", maxIDLen, sc.ID, sc.Frames, sc.A.Spec, sc.B.Spec)
	}

	fmt.Println()
	fmt.Println("Run 'collide detect <id>' or 'collide view <id>' to try one.")
}

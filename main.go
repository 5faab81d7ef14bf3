package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/PolarWolf314/hush/cmd"
	"github.com/PolarWolf314/hush/internal/ui"
)

func main() {
	root := cmd.GetHushCmd()
	root.Run = func(c *cobra.Command, args []string) {
		fmt.Println()
		figure.NewColorFigure("hush", "small", "cyan", true).Print()
		fmt.Println()
		fmt.Println(ui.Hint("Run " + ui.Code.Sprint("hush --help") + " to see available commands"))
	}

	if err := root.Execute(); err != nil {
		if !cmd.Reported(err) {
			fmt.Fprintln(os.Stderr, ui.Fail(err.Error()))
		}
		os.Exit(1)
	}
}

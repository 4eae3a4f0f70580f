// Command inquire answers open-ended research questions from the
// terminal by driving an LLM through a plan-execute-verify-synthesize
// loop with web, document and media tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "inquire",
		Short: "Research agent that answers questions with an LLM and tools",
		Long: `inquire answers open-ended questions by planning with an LLM,
executing plan steps with tools (web search, Wikipedia, page scraping,
document loading, image/video/audio analysis, YouTube download),
verifying progress, and synthesizing a final answer.`,
		SilenceUsage: true,
	}
	root.AddCommand(newAskCmd())
	return root
}

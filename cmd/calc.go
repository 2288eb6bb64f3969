package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edalens/internal/calculator"
)

var calcCmd = &cobra.Command{
	Use:   "calc <num1> <num2> <operation>",
	Short: "Add, subtract, multiply or divide two numbers",
	Long: `Apply one of the calculator operations to two numbers and print the result.
Invalid input prints the same messages as the web calculator.`,
	Example: `  edalens calc 4 2 Divide
  edalens calc -- -3 5 Add`,
	Args: cobra.ExactArgs(3),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 2 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		out := make([]string, 0, len(calculator.Ops))
		for _, op := range calculator.Ops {
			if strings.HasPrefix(string(op), toComplete) {
				out = append(out, string(op))
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), calculator.Calculate(args[0], args[1], args[2]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
}

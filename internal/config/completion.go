package config

import "github.com/spf13/cobra"

// CompleteOutputFormat provides shell completion candidates for the --output flag.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return formatNames(), cobra.ShellCompDirectiveNoFileComp
}

// CompleteTransport provides shell completion candidates for the --transport flag.
func CompleteTransport(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return Transports, cobra.ShellCompDirectiveNoFileComp
}

// RegisterFlagCompletions wires the enum completions onto cmd's persistent flags.
func RegisterFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("output", CompleteOutputFormat)
	_ = cmd.RegisterFlagCompletionFunc("transport", CompleteTransport)
}

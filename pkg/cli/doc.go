/*
Package cli provides command-line interface utilities for Redkeep.

The cli package includes output formatters, exit-code aware errors, and
signal handling helpers used by the redkeep command.

Output Formatting:

Command results can be rendered as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Exit Codes:

Errors map to process exit codes so scripts can tell a rejected
configuration (exit 2) apart from an operational failure (exit 1):

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx := cli.SetupSignalHandler()
	// Use ctx for operations that should stop on shutdown
*/
package cli

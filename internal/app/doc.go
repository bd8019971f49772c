// Package app contains the core application logic. It defines the main
// App struct, the validated run configuration, and the run lifecycle:
// parse the input, run the worker pool to completion, report totals, and
// write the rejects file. It is decoupled from any specific entrypoint
// like a CLI.
package app

// Command nccctl runs administrative tasks against the NCC ERP database and
// integrations: migrations, the first admin account, sheet checks and the
// notification worker.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

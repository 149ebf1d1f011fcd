//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Extract builds the CLI and runs it against the CSV files named by the
// EMAIL_CSV and MOB_CSV environment variables.
func Extract() error {
	mg.Deps(Build)

	emailCSV, mobCSV := os.Getenv("EMAIL_CSV"), os.Getenv("MOB_CSV")
	if emailCSV == "" || mobCSV == "" {
		return fmt.Errorf("set EMAIL_CSV and MOB_CSV to the input CSV paths")
	}
	return sh.RunV("./"+binDir+"/"+binName, "--email-csv", emailCSV, "--mob-csv", mobCSV)
}

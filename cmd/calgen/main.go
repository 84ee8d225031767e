// Command calgen generates liturgical calendars from the bundled definitions.
//
// Usage:
//
//	calgen calendars
//	calgen generate --calendar ireland --year 2025 --format text --locale en-IE
//	calgen generate --calendar general_roman --year 2024 --epiphany-on-sunday --format ics > 2024.ics
//	calgen day --calendar europe --date 2025-07-11
//	calgen find --calendar ireland --key patrick_of_ireland_bishop --from 2020 --to 2030
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

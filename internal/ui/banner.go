package ui

import (
	"github.com/pterm/pterm"
)

func PrintBanner() {
	logo := `
   _____ ______   ____             __
  / ___// ____/  / __ \____ ______/ /_
  \__ \/ / __   / / / / __ ` + "`" + `/ ___/ __ \
 ___/ / /_/ /  / /_/ / /_/ (__  ) / / /
/____/\____/  /_____/\__,_/____/_/ /_/
`
	pterm.FgCyan.Println(logo)
	pterm.DefaultCenter.Println(pterm.FgGray.Sprint("security group exposure dashboard"))
	pterm.Println()
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	probingStyle     = termenv.Style{}.Foreground(termenv.ANSIYellow)
	goodStyle        = termenv.Style{}.Foreground(termenv.ANSIGreen)
	interruptedStyle = termenv.Style{}.Foreground(termenv.ANSIRed)
)

var countStyle = termenv.Style{}.Bold()

package cmd

import "github.com/atotto/clipboard"

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

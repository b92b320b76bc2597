// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program grncmd reads search-server command streams and reports their
// commands and load records.
//
// Usage:
//
//	grncmd parse [--chunk-size n] [--source] [file]
//	grncmd convert --to uri|command [--prefix /d] [file]
//	grncmd records [--select path ...] [file]
//
// With no file, or "-", input is read from stdin.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

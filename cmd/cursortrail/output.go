package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

func printSaved(frames int, paths []string) {
	fmt.Printf("Saved %d frame(s) per monitor:\n", frames)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Printf("  %s (missing)\n", path)
			continue
		}
		fmt.Printf("  %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
	}
}

/*
Package flashcards generates a deck of illustrated letter/word flashcards,
one card per letter, both as SVG documents and as PNG images.

Each card shows the letter pair (e.g. "A a") in the top left corner, an illustration
in the middle and the word at the bottom. The text is sized with an autofit search
which is then unified over the whole deck, so every card uses the same type size.
Illustrations are trimmed of their uniform background before being placed.

The package provides a command line interface, supporting various flags for the card
layout, colors and fonts. To check the supported commands type:

	$ flashcards --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"log"

		"github.com/esimov/flashcards"
	)

	func main() {
		pairs, err := flashcards.LoadMapping("mapping.json")
		if err != nil {
			log.Fatal(err)
		}
		images, err := flashcards.NewDirIllustrations("images")
		if err != nil {
			log.Fatal(err)
		}
		layout, err := flashcards.NewLayout(1500, 2500)
		if err != nil {
			log.Fatal(err)
		}
		g := &flashcards.Generator{
			Composer: flashcards.Composer{
				Layout:   layout,
				Typeface: flashcards.FallbackTypeface(),
			},
			Illustrations: images,
			OutDir:        "out",
		}
		report, err := g.Run(pairs)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("generated %d cards\n", len(report.Generated))
	}
*/
package flashcards

package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/seqsense/orbitviewer/config"
)

// swatchesHTML returns the color items of a part menu.
func swatchesHTML(p config.Palette, selected string) string {
	var b strings.Builder
	for _, c := range p {
		class := ""
		if c.Name == selected {
			class = ` class="selected"`
		}
		fmt.Fprintf(&b, `<span data-color="%s"%s style="background-color: %s"></span>`,
			html.EscapeString(c.Name), class, c.Color.Hex(),
		)
	}
	return b.String()
}

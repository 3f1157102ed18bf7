/*
Package html extracts text from HTML as a rope.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

*/
package html

import (
	"io"

	"github.com/npillmayer/rope"
	"golang.org/x/net/html"
)

// InnerText creates a text rope for the textual content of an HTML element and all
// its descendents. It resembles the text produced by
//
//      document.getElementById("myNode").innerText
//
// in JavaScript (except that html.InnerText cannot respect CSS styling suppressing
// the visibility of the node's descendents).
//
// The fragment organization of the resulting rope will reflect the hierarchy of
// the element node's descendents.
//
func InnerText(n *html.Node) (rope.Rope, error) {
	if n == nil {
		return rope.Rope{}, rope.ErrIllegalArguments
	}
	b := rope.NewBuilder()
	if err := collectText(n, b); err != nil {
		return rope.Rope{}, err
	}
	return b.Rope(), nil
}

func collectText(n *html.Node, b *rope.Builder) error {
	if n.Type == html.TextNode {
		if err := b.AppendLeaf(rope.StringLeaf(n.Data)); err != nil {
			return err
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := collectText(c, b); err != nil {
			return err
		}
	}
	return nil
}

// TextFromHTML creates a rope.Rope from the textual content of an HTML fragment.
// It does no interpretation of layout and styling, but extracts the pure text.
func TextFromHTML(input io.Reader) (rope.Rope, error) {
	nodes, err := html.ParseFragment(input, nil)
	if err != nil {
		return rope.Rope{}, err
	}
	b := rope.NewBuilder()
	for _, n := range nodes {
		if err := collectText(n, b); err != nil {
			return rope.Rope{}, err
		}
	}
	return b.Rope(), nil
}

// Package clipboard adapts the system clipboard for dispatch. The
// rendered table is written as text; mail clients accept the markup on
// paste.
package clipboard

import "github.com/atotto/clipboard"

type System struct{}

func New() *System { return &System{} }

func (*System) WriteHTML(html string) error {
	return clipboard.WriteAll(html)
}

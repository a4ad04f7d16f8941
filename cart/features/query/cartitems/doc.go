// Package cartitems implements the Cart Items query use case.
//
// This feature provides a pure query operation that returns the active item
// lines of one cart, together with the total price over all lines. It follows
// the Read-Project pattern without any command processing or event generation.
package cartitems

// Minimal embedding of the marq translator: feed it a template, get back
// the markup-builder token stream as text.
package main

import (
	"fmt"
	"log"

	"github.com/njreid/marq/pkg/marq"
)

const page = `
h1 {
    + "Hello world";
}
ul {
    for item in items {
        li(data-index = item.index) {
            + item.label;
        }
    }
}
`

func main() {
	out, err := marq.Translate(page)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
}

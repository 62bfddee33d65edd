// Package identity generates the process-local display name. Names are
// human-readable and not guaranteed globally unique.
package identity

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/goombaio/namegenerator"
)

const fallbackName = "guest"

// Nickname returns a display name of the form adjective-noun-NNNN,
// generated once at startup and immutable for the process lifetime.
func Nickname() string {
	name := namegenerator.NewNameGenerator(time.Now().UnixNano()).Generate()
	if name == "" {
		name = fallbackName
	}
	return fmt.Sprintf("%s-%04d", name, rand.Intn(10000))
}

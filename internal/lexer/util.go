package lexer

import (
	"fmt"

	"fortio.org/safecast"
)

func toU32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("position overflow: %w", err))
	}
	return v
}

package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

var (
	ErrUnavailable = errors.New("clipboard is not available")
	ErrEmpty       = errors.New("nothing to copy")
)

type Copier struct {
	write       func(string) error
	unsupported bool
}

func New() *Copier {
	return &Copier{write: clipboard.WriteAll, unsupported: clipboard.Unsupported}
}

// NewWithWriter is used where the system clipboard must not be touched.
func NewWithWriter(write func(string) error) *Copier {
	return &Copier{write: write}
}

func (c *Copier) Copy(text string) error {
	if len(text) == 0 {
		return ErrEmpty
	}
	if c.unsupported {
		return ErrUnavailable
	}

	if err := c.write(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}

	return nil
}

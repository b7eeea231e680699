// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/platform-engineering-labs/portctl/internal/cli/display"
)

type Prompter interface {
	Confirm(prompt string) bool
}

type BasicPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewBasicPrompter() *BasicPrompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

func NewPrompter(in io.Reader, out io.Writer) *BasicPrompter {
	return &BasicPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm only accepts an explicit "Y".
func (p *BasicPrompter) Confirm(prompt string) bool {
	_, _ = fmt.Fprintf(p.out, "%s %s: ", prompt, display.Grey("(Y)"))
	response, err := p.in.ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "Y"
}

// AlwaysYes is used when the user passed --yes.
type AlwaysYes struct{}

func (AlwaysYes) Confirm(string) bool { return true }

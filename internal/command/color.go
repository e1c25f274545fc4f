package command

import (
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/acttree/internal/config"
	"golang.org/x/term"
)

// resolveColor decides whether output to w is styled. The mode is the flag
// value, then the color option. In auto mode colour is used only when w is a
// terminal and NO_COLOR is unset.
func resolveColor(flagMode string, cfg *config.Config, section string, w io.Writer) (bool, error) {
	mode := flagMode
	if mode == "" {
		mode = config.DefaultSchema().ResolveSection(cfg, section, "color")
	}
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false, nil
		}
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid color mode: %s", mode)
	}
}

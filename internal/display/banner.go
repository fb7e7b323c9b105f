package display

import (
	"fmt"
	"os"

	"github.com/Pixelaters/merge-replays/internal/term"
)

const banner = ` __  __                     ____            _
|  \/  | ___ _ __ __ _  ___|  _ \ ___ _ __ | | __ _ _   _ ___
| |\/| |/ _ \ '__/ _` + "`" + ` |/ _ \ |_) / _ \ '_ \| |/ _` + "`" + ` | | | / __|
| |  | |  __/ | | (_| |  __/  _ <  __/ |_) | | (_| | |_| \__ \
|_|  |_|\___|_|  \__, |\___|_| \_\___| .__/|_|\__,_|\__, |___/
                 |___/               |_|            |___/
`

// PrintBanner prints the ASCII art banner in magenta when colors are enabled.
func PrintBanner() {
	fmt.Fprintln(os.Stdout, term.Paint(term.Magenta, banner))
}

package terminal

import "errors"

var errClipboardUnsupported = errors.New("no clipboard utility available")

// Package clipboard wraps system clipboard access behind a fails-soft API.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copy places text on the system clipboard. It returns false instead of an
// error: the callers only ever show a "(clipboard copy failed)" notice.
func Copy(text string) bool {
	return clipboard.WriteAll(text) == nil
}

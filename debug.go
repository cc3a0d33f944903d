package probe

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing for one Step call. Only populated when
// Context.Config.Debug is true.
type debugStats struct {
	ingestTime  time.Duration
	hitTestTime time.Duration
	elementTime time.Duration
	siblingTime time.Duration
	touchCount  int
	elementCount int
	errorCount  int
}

// debugLog prints timing and counts to stderr.
func (c *Context) debugLog(stats debugStats) {
	if !c.Config.Debug {
		return
	}
	total := stats.ingestTime + stats.hitTestTime + stats.elementTime + stats.siblingTime
	fmt.Fprintf(os.Stderr,
		"[probe] frame=%d ingest: %v | hit-test: %v | element: %v | sibling: %v | total: %v\n",
		c.frame, stats.ingestTime, stats.hitTestTime, stats.elementTime, stats.siblingTime, total)
	fmt.Fprintf(os.Stderr,
		"[probe] frame=%d touches=%d elements=%d errors=%d\n",
		c.frame, stats.touchCount, stats.elementCount, stats.errorCount)
}

// debugCheckDeleted panics with a descriptive message when a deleted
// element is passed back into a tree operation. Only called when
// Config.Debug is set; release mode skips the check entirely.
func debugCheckDeleted(e *Element, op string) {
	if e.state == Deleted {
		panic(fmt.Sprintf("probe debug: %s on deleted element %q (id %d)", op, e.name, e.id))
	}
}

// debugMaxTreeDepth is the depth above which debugCheckTreeDepth warns.
const debugMaxTreeDepth = 64

func debugCheckTreeDepth(e *Element) {
	depth := 0
	for p := e; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		fmt.Fprintf(os.Stderr, "[probe] warning: tree depth %d exceeds %d (element %q)\n",
			depth, debugMaxTreeDepth, e.name)
	}
}

// debugMaxFadeOutTime is the cascading fade-out total (parent delays plus
// this element's own ramp) above which debugCheckFadeOutBudget warns. A
// deep chain of fadeOutDelay values cascades additively (see
// Element.startDeletionWithDelay), so a leaf far down a tree can end up
// with a much longer absoluteFadeOutTime than its own fields suggest.
const debugMaxFadeOutTime = 30.0 // seconds

func debugCheckFadeOutBudget(e *Element) {
	if e.state != FadingOut {
		return
	}
	if t := e.absoluteFadeOutTime(); t > debugMaxFadeOutTime {
		fmt.Fprintf(os.Stderr, "[probe] warning: cascading fade-out time %.1fs exceeds %.1fs (element %q)\n",
			t, debugMaxFadeOutTime, e.name)
	}
}

// debugMaxChildCount is the sibling count above which debugCheckChildCount warns.
const debugMaxChildCount = 1000

func debugCheckChildCount(e *Element) {
	if len(e.children) > debugMaxChildCount {
		fmt.Fprintf(os.Stderr, "[probe] warning: element %q has %d children (threshold %d)\n",
			e.name, len(e.children), debugMaxChildCount)
	}
}

// debugLogErrors writes every collected FrameError to stderr, one per line.
func debugLogErrors(errs []*FrameError) {
	for _, err := range errs {
		fmt.Fprintf(os.Stderr, "[probe] %s\n", err.Error())
	}
}

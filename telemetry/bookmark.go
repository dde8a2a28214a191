package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkSplash       BookmarkType = "splash"
	BookmarkTankEmptied  BookmarkType = "tank_emptied"
	BookmarkGridDiverged BookmarkType = "grid_diverged"
	BookmarkSettled      BookmarkType = "settled"
)

// Bookmark thresholds
const (
	splashFactor     = 2.0  // speed mean over rolling average
	splashMinSpeed   = 1.0  // world units per second
	settledMaxSpeed  = 0.05 // world units per second
	settledWindows   = 5
	minSplashHistory = 3
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable moments in the fluid from successive stats windows.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	prev         WindowStats
	hasPrev      bool
	settledCount int // consecutive windows below settledMaxSpeed
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < minSplashHistory {
		historySize = minSplashHistory
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Splash: mean speed jumps well above its rolling average
	if b := bd.checkSplash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Tank emptied: particles went to zero
	if b := bd.checkTankEmptied(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Grid diverged: first window with a non-finite grid
	if b := bd.checkGridDiverged(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Settled: fluid at rest for several windows
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.prev = stats
	bd.hasPrev = true

	return bookmarks
}

// Reset forgets all history, e.g. after the simulation is rewound.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.prev = WindowStats{}
	bd.hasPrev = false
	bd.settledCount = 0
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkSplash(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < minSplashHistory {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.SpeedMean
	}
	avg := total / float64(len(history))
	if avg <= 0 {
		return nil
	}

	if stats.SpeedMean > avg*splashFactor && stats.SpeedMean > splashMinSpeed {
		return &Bookmark{
			Type:        BookmarkSplash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Mean speed %.2f is %.1fx average (%.2f)", stats.SpeedMean, stats.SpeedMean/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkTankEmptied(stats WindowStats) *Bookmark {
	if !bd.hasPrev || bd.prev.Particles == 0 || stats.Particles > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkTankEmptied,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All %d particles drained", bd.prev.Particles),
	}
}

func (bd *BookmarkDetector) checkGridDiverged(stats WindowStats) *Bookmark {
	if stats.NonFiniteTicks == 0 {
		return nil
	}
	if bd.hasPrev && bd.prev.NonFiniteTicks > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkGridDiverged,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d ticks produced a non-finite grid", stats.NonFiniteTicks),
	}
}

func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Particles == 0 || stats.SpeedMean >= settledMaxSpeed {
		bd.settledCount = 0
		return nil
	}

	bd.settledCount++
	if bd.settledCount == settledWindows { // trigger exactly once per run of calm windows
		return &Bookmark{
			Type:        BookmarkSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d particles below %.2f mean speed over %d windows", stats.Particles, settledMaxSpeed, settledWindows),
		}
	}
	return nil
}

package parser

import "regexp"

// Wall-clock format of the UTC field in the time-anchor line: "Mon Jan 15 10:00:00 2024".
// Runs of whitespace are collapsed before parsing so space-padded days also match.
const wallClockLayout = "Mon Jan 2 15:04:05 2006"

// Compiled regex patterns for line classification.
var (
	// Matches: "12.345 ..." (any line starting with an offset)
	// Captures: (1) offset
	offsetPattern = regexp.MustCompile(`^([0-9.]+)`)

	// Matches: "1.234 Sys [Info]: Logged in PlayerName"
	// Captures: (1) offset, (2) player name
	loginPattern = regexp.MustCompile(
		`^([0-9.]+) Sys \[Info\]: Logged in (\S+)`,
	)

	// Matches: "2.5 Sys [Diag]: Current time: Mon Jan 15 11:00:00 2024 [UTC: Mon Jan 15 10:00:00 2024]"
	// Captures: (1) offset, (2) UTC wall clock
	anchorPattern = regexp.MustCompile(
		`^([0-9.]+) Sys \[Diag\]: Current time: [^\[]+\[UTC: ([^\]]+)\]`,
	)

	// Matches: "12.5 Game [Info]: Lotus was downed by Grineer Lancer damage 45.0 / 0.0"
	// Matches: "12.5 Game [Info]: Lotus was killed by a Grineer Lancer"
	// Captures: (1) offset, (2) victim, (3) state, (4) source, (5) damage info (optional)
	combatPattern = regexp.MustCompile(
		`^([0-9.]+) Game \[Info\]: (.+?) was (\S+) by (.*?)(?: damage ?(.*))?$`,
	)

	// Matches: "30.0 Game [Warning]: Unit took high dmg: 1.2e4"
	// Captures: (1) offset, (2) warning text
	warningPattern = regexp.MustCompile(
		`^([0-9.]+) Game \[Warning\]:\s*(.*)$`,
	)

	// noisePattern must occur in a warning for it to survive noise suppression.
	noisePattern = regexp.MustCompile(`(?i)dmg|damage`)

	// Matches: "high dmg: 1.2e+04"
	// Captures: (1) damage figure
	highDamagePattern = regexp.MustCompile(`high dmg:\s*([0-9.eE+\-]+)`)
)

// RazorfliesVictim is a non-player entity whose combat lines are pure spam.
const RazorfliesVictim = "RAZORFLIES"

// spammyWarningPrefix starts warnings unrelated to gameplay that are always dropped.
const spammyWarningPrefix = "Cannot create"

const (
	healthDamageSeparator = " / "
	unknownHealth         = "unknown"
	unknownSource         = "from an unknown source"
	downedState           = "downed"
)
